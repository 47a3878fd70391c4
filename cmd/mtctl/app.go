package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/houzhh15/mt-console/pkg/api"
	"github.com/houzhh15/mt-console/pkg/apiclient"
	"github.com/houzhh15/mt-console/pkg/config"
	"github.com/houzhh15/mt-console/pkg/logger"
	"github.com/houzhh15/mt-console/pkg/metrics"
	"github.com/houzhh15/mt-console/pkg/router"
	"github.com/houzhh15/mt-console/pkg/storage"
)

// errLoginRequired 未登录时执行管理命令
var errLoginRequired = errors.New("login required")

// app 单次命令执行所需的全部依赖
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	store  storage.Store
	svc    *api.Services
	guard  *router.Guard
	router *router.Router
	close  func() error
}

// addGlobalFlags 为 root 命令添加全局标志
func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "配置文件路径 (默认: ~/.mtconsole/config.yaml)")
	cmd.PersistentFlags().String("server-url", "", "后端地址 (env: MT_API_BASE_URL, 默认: http://localhost:8080)")
	cmd.PersistentFlags().String("token", "", "本次调用使用的凭证，不写入本地状态")
	cmd.PersistentFlags().StringP("output", "o", "", "输出格式: json / text (默认: text)")
	cmd.PersistentFlags().String("lang", "", "提示语言: zh / en (env: MT_LANG)")
	cmd.PersistentFlags().String("state-file", "", "登录状态文件 (env: MT_STATE_FILE, 默认: ~/.mtconsole/state.json)")
	cmd.PersistentFlags().Bool("show-metrics", false, "命令结束后在 stderr 输出本次调用指标")
}

// loadConfig 配置文件 → .env → 环境变量 → 命令行标志
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("server-url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.Output = v
	}
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		cfg.Lang = v
	}
	if v, _ := cmd.Flags().GetString("state-file"); v != "" {
		cfg.State.Backend = config.BackendFile
		cfg.State.File = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp 组装客户端、服务与守卫
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Environment: cfg.Log.Environment, File: cfg.Log.File}
	var log *slog.Logger
	if cfg.Log.File != "" {
		log, err = logger.New(logCfg)
	} else {
		log, err = logger.NewWithWriter(logCfg, cmd.ErrOrStderr())
	}
	if err != nil {
		return nil, err
	}

	store, closeStore, err := cfg.OpenStore(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	if token, _ := cmd.Flags().GetString("token"); token != "" {
		store = tokenOverride{Store: store, token: token}
	}

	client := apiclient.New(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
		Lang:    cfg.Lang,
	},
		apiclient.WithStore(store),
		apiclient.WithNotifier(apiclient.NewWriterNotifier(cmd.ErrOrStderr())),
		apiclient.WithLogger(log),
		apiclient.WithMetrics(metrics.Prometheus{}),
	)

	guard := router.NewGuard(store)
	return &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		svc:    api.NewServices(client, cfg.API.AskTimeout()),
		guard:  guard,
		router: router.New(guard, nil),
		close:  closeStore,
	}, nil
}

// requireLogin 管理命令对应控制台页面，未登录时按守卫的判定拒绝
func (a *app) requireLogin(page string) error {
	d := a.guard.Evaluate(page)
	if d.Allow {
		return nil
	}
	return fmt.Errorf("%w: %s → %s, 请先执行 'mtctl login'", errLoginRequired, page, d.Redirect)
}

// tokenOverride 使用 --token 指定的凭证，其余键透传
type tokenOverride struct {
	storage.Store
	token string
}

func (t tokenOverride) Get(key string) (string, bool, error) {
	if key == storage.KeyToken {
		return t.token, true, nil
	}
	return t.Store.Get(key)
}

// withApp 包装 RunE：创建 app，可选地检查登录，结束后释放资源
// page 为空表示不需要登录
func withApp(page string, run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.close(); err != nil {
				a.log.Warn("close state store failed", "error", err)
			}
		}()
		if page != "" {
			if err := a.requireLogin(page); err != nil {
				return err
			}
		}
		if err := run(cmd, args, a); err != nil {
			return err
		}
		if show, _ := cmd.Flags().GetBool("show-metrics"); show {
			return metrics.WriteSummary(cmd.ErrOrStderr(), prometheus.DefaultGatherer)
		}
		return nil
	}
}
