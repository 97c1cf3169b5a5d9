package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"gitlab.grandhoo.com/rock/rock_cfd/rds_config"
)

type AllConfig struct {
	Logger Logger `mapstructure:"logger" json:"logger" yaml:"logger"`
	Server Server `mapstructure:"server" json:"server" yaml:"server"`
	Db     Db     `mapstructure:"db" json:"db" yaml:"db"`
	Cfd    Cfd    `mapstructure:"cfd" json:"cfd" yaml:"cfd"`
}

type Logger struct {
	Level        string `mapstructure:"level" json:"level" yaml:"level"`
	Path         string `mapstructure:"path" json:"path" yaml:"path"`
	MaxAge       int64  `mapstructure:"max_age" json:"maxAge" yaml:"max_age"`                   // 小时
	RotationTime int64  `mapstructure:"rotation_time" json:"rotationTime" yaml:"rotation_time"` // 小时
	RotationSize int64  `mapstructure:"rotation_size" json:"rotationSize" yaml:"rotation_size"` // MB
}

type Server struct {
	Name      string `mapstructure:"name" json:"name" yaml:"name"`
	Port      uint32 `mapstructure:"port" json:"port" yaml:"port"`
	SentryDsn string `mapstructure:"sentry_dsn" json:"sentryDsn" yaml:"sentry_dsn"`
}

type Db struct {
	Type string `mapstructure:"type" json:"type" yaml:"type"` // postgres, sqlite, 为空时不落库
	Dsn  string `mapstructure:"dsn" json:"dsn" yaml:"dsn"`
}

// Cfd 规则发现的默认参数, 请求里的参数会覆盖这里
type Cfd struct {
	EnumK       int     `mapstructure:"enum_k" json:"enum_k" yaml:"enum_k"`
	Support     float64 `mapstructure:"support" json:"support" yaml:"support"`
	Confidence  float64 `mapstructure:"confidence" json:"confidence" yaml:"confidence"`
	TreeLevel   int     `mapstructure:"tree_level" json:"tree_level" yaml:"tree_level"`
	Parallelism int     `mapstructure:"parallelism" json:"parallelism" yaml:"parallelism"`
	Trace       bool    `mapstructure:"trace" json:"trace" yaml:"trace"`
}

var All = defaultConfig()

func defaultConfig() *AllConfig {
	return &AllConfig{
		Logger: Logger{Level: "info", MaxAge: 24 * 7, RotationTime: 24, RotationSize: 100},
		Server: Server{Name: "rock_cfd", Port: rds_config.GinPort},
		Cfd: Cfd{
			EnumK:      rds_config.EnumK,
			Support:    rds_config.Support,
			Confidence: rds_config.Confidence,
			TreeLevel:  rds_config.TreeLevel,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()
	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.path", d.Logger.Path)
	v.SetDefault("logger.max_age", d.Logger.MaxAge)
	v.SetDefault("logger.rotation_time", d.Logger.RotationTime)
	v.SetDefault("logger.rotation_size", d.Logger.RotationSize)
	v.SetDefault("server.name", d.Server.Name)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.sentry_dsn", "")
	v.SetDefault("db.type", "")
	v.SetDefault("db.dsn", "")
	v.SetDefault("cfd.enum_k", d.Cfd.EnumK)
	v.SetDefault("cfd.support", d.Cfd.Support)
	v.SetDefault("cfd.confidence", d.Cfd.Confidence)
	v.SetDefault("cfd.tree_level", d.Cfd.TreeLevel)
	v.SetDefault("cfd.parallelism", d.Cfd.Parallelism)
	v.SetDefault("cfd.trace", d.Cfd.Trace)
}

// InitConfig 加载配置, 优先级: 环境变量(ROCK_CFD_*) > 配置文件 > 默认值
// cfgFile 为空时依次查找 ./config.yaml 和 ./conf/config.yaml, 找不到则只用默认值
func InitConfig(cfgFile string) error {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("ROCK_CFD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return errors.Wrapf(err, "config file %s", cfgFile)
		}
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./conf")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return errors.Wrap(err, "read config")
		}
	}

	all := &AllConfig{}
	if err := v.Unmarshal(all); err != nil {
		return errors.Wrap(err, "unmarshal config")
	}
	All = all
	return nil
}
