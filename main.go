// @title Project K 学习平台 API
// @version 1.0
// @description Project K 学习平台的后端服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"fmt"
	"os"
	"projectk_backend/internal/app"
	"projectk_backend/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "projectk",
		Short:         "Project K learning platform backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("config-dir", "configs", "配置文件目录")

	serve := serveCmd()
	root.AddCommand(serve, migrateCmd())

	// 不带子命令时默认启动服务
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE:  runServe,
	}
	cmd.Flags().Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "只执行数据库迁移，完成后退出",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.ForceMigrate = true
			cfg.MigrateOnly = true
			return app.Migrate(cfg)
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	dir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	return cfg, dir, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		cfg.ForceMigrate = true
	}

	application, err := app.NewApp(cfg, dir)
	if err != nil {
		return err
	}
	return application.Run()
}
