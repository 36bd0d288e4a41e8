package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/riskmanagement123/loansim"
	"github.com/riskmanagement123/loansim/internal/config"
	"github.com/riskmanagement123/loansim/internal/logging"
	"github.com/riskmanagement123/loansim/internal/obs"
)

var (
	Version = "0.1.0"

	cfgFile  string
	logLevel string

	appConfig *config.Config
	logger    *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "loansim",
	Short: "Loan amortization simulator",
	Long: `loansim 生成逐月还款计划：等额本息 / 等额本金，
支持浮动利率、逐月自定义还款和两种提前还款策略（缩期 / 减供）。

Commands:
  simulate  - 命令行参数直接模拟
  csv       - 读取参数表模拟
  serve     - 启动 HTTP 接口`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		appConfig = cfg
		logger = logging.NewWithOutput(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// executeArgs 测试入口
func executeArgs(out, errOut io.Writer, args ...string) error {
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(os.Stdout)
		rootCmd.SetErr(os.Stderr)
		rootCmd.SetArgs(nil)
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.toml / .yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

// newEngine 引擎 + 日志插件；metrics 可以为 nil
func newEngine(metrics *obs.Metrics) (*loansim.Engine, error) {
	opts, err := appConfig.EngineOptions()
	if err != nil {
		return nil, err
	}
	plugins := []loansim.Plugin{logging.NewPlugin(logger)}
	if metrics != nil {
		plugins = append(plugins, metrics.Plugin())
	}
	return loansim.NewEngine(opts, plugins...), nil
}

// describeError 领域错误带上错误码
func describeError(err error) error {
	if code := loansim.CodeOf(err); code != "" {
		return fmt.Errorf("[%s] %w", code, err)
	}
	return err
}
