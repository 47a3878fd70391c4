package router

import (
	"errors"
	"fmt"
	"strings"
)

// 错误定义
var (
	// ErrNotFound 没有匹配的路由
	ErrNotFound = errors.New("route not found")

	// ErrTooManyRedirects 重定向次数超过上限
	ErrTooManyRedirects = errors.New("too many redirects")
)

const maxHops = 8

// Route 路由定义，Path 中以 : 开头的段为参数
type Route struct {
	Path     string
	Name     string
	Redirect string
}

// Resolution 导航结果
type Resolution struct {
	Path   string
	Route  Route
	Params map[string]string
	// Hops 依次经过的路径（含起点），用于展示重定向链
	Hops []string
}

// ConsoleRoutes 控制台路由表
var ConsoleRoutes = []Route{
	{Path: "/", Redirect: "/login"},
	{Path: "/login", Name: "Login"},
	{Path: "/admin", Redirect: "/admin/api"},
	{Path: "/admin/chat-interface", Name: "ChatInterface"},
	{Path: "/admin/api", Name: "ApiManagement"},
	{Path: "/admin/data", Name: "DataManagement"},
	{Path: "/admin/extension", Name: "ExtensionManagement"},
	{Path: "/admin/data/databases", Name: "DataDbList"},
	{Path: "/admin/data/new", Name: "DataDbWizard"},
	{Path: "/admin/qa", Name: "KnowledgeQA"},
	{Path: "/admin/qa/new", Name: "NewKnowledgeWizard"},
	{Path: "/admin/qa/segmentation", Name: "TextSegmentationReview"},
	{Path: "/admin/qa/association", Name: "KnowledgeAssociationReview"},
	{Path: "/admin/knowledge", Name: "KnowledgeManagement"},
	{Path: "/admin/knowledge/:knowledgeId/files", Name: "KnowledgeFiles"},
	{Path: "/admin/knowledge/:knowledgeId/files/:fileId/blocks", Name: "FileBlocks"},
	{Path: "/admin/knowledge/:knowledgeId/relations", Name: "KnowledgeRelations"},
}

// Router 路由器：先过守卫，再按路由表解析静态重定向
type Router struct {
	guard  *Guard
	routes []Route
}

// New 创建路由器，routes 为空时使用 ConsoleRoutes
func New(guard *Guard, routes []Route) *Router {
	if len(routes) == 0 {
		routes = ConsoleRoutes
	}
	return &Router{guard: guard, routes: routes}
}

// Navigate 解析到 target 的导航，直到落在一个具体页面
func (r *Router) Navigate(target string) (*Resolution, error) {
	current := normalize(target)
	hops := []string{current}
	for i := 0; i < maxHops; i++ {
		if d := r.guard.Evaluate(current); !d.Allow {
			current = normalize(d.Redirect)
			hops = append(hops, current)
			continue
		}
		route, params, ok := r.match(current)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, current)
		}
		if route.Redirect != "" {
			current = normalize(route.Redirect)
			hops = append(hops, current)
			continue
		}
		return &Resolution{Path: current, Route: route, Params: params, Hops: hops}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTooManyRedirects, strings.Join(hops, " -> "))
}

func (r *Router) match(path string) (Route, map[string]string, bool) {
	segs := splitPath(path)
	for _, rt := range r.routes {
		pattern := splitPath(rt.Path)
		if len(pattern) != len(segs) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i, p := range pattern {
			if strings.HasPrefix(p, ":") {
				params[p[1:]] = segs[i]
				continue
			}
			if p != segs[i] {
				ok = false
				break
			}
		}
		if ok {
			return rt, params, true
		}
	}
	return Route{}, nil, false
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
