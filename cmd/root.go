package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitlab.grandhoo.com/rock/rock_cfd/base/config"
	"gitlab.grandhoo.com/rock/rock_cfd/base/db"
	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
	"gitlab.grandhoo.com/rock/rock_cfd/cfd_rule_dig/dao"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "rock_cfd",
	Short: "Discover conditional functional dependencies in a csv or excel table",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: initEnv,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, default ./config.yaml or ./conf/config.yaml")
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
}

// 配置 -> 日志 -> 数据库
func initEnv(_ *cobra.Command, _ []string) error {
	if err := config.InitConfig(cfgFile); err != nil {
		return err
	}
	l, s := config.All.Logger, config.All.Server
	if err := logger.InitLogger(l.Level, s.Name, l.Path, l.MaxAge, l.RotationTime, l.RotationSize, s.SentryDsn); err != nil {
		return err
	}
	if err := db.InitGorm(); err != nil {
		return err
	}
	if db.DB != nil {
		if err := dao.AutoMigrate(); err != nil {
			logger.Errorf("[initEnv] auto migrate failed, err:%v", err)
			return err
		}
	}
	return nil
}

func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
