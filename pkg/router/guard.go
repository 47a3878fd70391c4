// Package router 实现控制台的路由表与登录守卫。
package router

import (
	"strings"

	"github.com/houzhh15/mt-console/pkg/storage"
)

// 默认路径
const (
	DefaultLoginPath   = "/login"
	DefaultLandingPath = "/admin"
)

// Decision 守卫对一次导航的判定
type Decision struct {
	Allow    bool
	Redirect string
}

// Guard 登录守卫，只读取登录标记，不做缓存
//
//	目标=登录页 且 已登录 → 重定向到管理首页
//	目标=登录页 且 未登录 → 放行
//	目标≠登录页 且 已登录 → 放行
//	目标≠登录页 且 未登录 → 重定向到登录页
type Guard struct {
	store       storage.Store
	LoginPath   string
	LandingPath string
}

// NewGuard 使用默认登录页与首页创建守卫
func NewGuard(store storage.Store) *Guard {
	return &Guard{store: store, LoginPath: DefaultLoginPath, LandingPath: DefaultLandingPath}
}

// Authenticated 当前是否处于已登录状态
func (g *Guard) Authenticated() bool {
	return storage.MarkerSet(g.store)
}

// Evaluate 判定到 target 的导航
func (g *Guard) Evaluate(target string) Decision {
	loggedIn := g.Authenticated()
	if normalize(target) == normalize(g.LoginPath) {
		if loggedIn {
			return Decision{Redirect: g.LandingPath}
		}
		return Decision{Allow: true}
	}
	if loggedIn {
		return Decision{Allow: true}
	}
	return Decision{Redirect: g.LoginPath}
}

// normalize 去掉查询串、片段与末尾斜杠
func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}
