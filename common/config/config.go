package config

// Config 全局配置结构
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	SaToken  SaTokenConfig  `yaml:"sa_token"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"` // dev, test, prod
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port         int    `yaml:"port"`
	Host         string `yaml:"host"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
	BodyLimit    int    `yaml:"body_limit"` // MB，插图以 base64 上传
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string   `yaml:"driver"` // mysql, postgres, memory
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	Username        string   `yaml:"username"`
	Password        string   `yaml:"password"`
	Database        string   `yaml:"database"`
	Charset         string   `yaml:"charset"`
	Replicas        []string `yaml:"replicas"` // 只读副本 DSN
	MaxIdleConns    int      `yaml:"max_idle_conns"`
	MaxOpenConns    int      `yaml:"max_open_conns"`
	ConnMaxLifetime int      `yaml:"conn_max_lifetime"`
	SlowThreshold   int      `yaml:"slow_threshold"` // 毫秒
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled 是否配置了 Redis
func (c RedisConfig) Enabled() bool {
	return c.Host != "" && c.Port > 0
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	Format     string `yaml:"format"` // json, console
	Output     string `yaml:"output"` // stdout, file, both
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
}

// SaTokenConfig SaToken配置
type SaTokenConfig struct {
	TokenName     string `yaml:"token_name"`      // token名称
	TokenStyle    string `yaml:"token_style"`     // token风格: uuid, simple-uuid, random-32, random-64, random-128, jwt
	Timeout       int64  `yaml:"timeout"`         // token有效期(秒)
	ActiveTimeout int64  `yaml:"active_timeout"`  // token活跃检测超时时间(秒)
	IsConcurrent  bool   `yaml:"is_concurrent"`   // 是否允许同一账号并发登录
	IsShare       bool   `yaml:"is_share"`        // 是否共用token
	MaxLoginCount int    `yaml:"max_login_count"` // 同一账号最大登录数量
	IsLog         bool   `yaml:"is_log"`          // 是否输出日志
	JwtSecretKey  string `yaml:"jwt_secret_key"`  // JWT密钥
}

// ApplyDefaults 填充未配置项的默认值
func (c *Config) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "app-center"
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.BodyLimit <= 0 {
		c.Server.BodyLimit = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Database.Charset == "" {
		c.Database.Charset = "utf8mb4"
	}
	if c.Database.SlowThreshold <= 0 {
		c.Database.SlowThreshold = 200
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.SaToken.TokenName == "" {
		c.SaToken.TokenName = "satoken"
	}
}
