package config

import (
	"os"

	commonConfig "github.com/obsamadmin/app-center/common/config"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	DefaultAdministratorsGroup      = "/platform/administrators"
	DefaultAdministratorsExpression = "*:" + DefaultAdministratorsGroup
	DefaultLimit                    = 1000
	DefaultIdentityCacheTTL         = 1800
)

// Config 应用配置
type Config struct {
	commonConfig.Config `yaml:",inline"`
	AppCenter           AppCenterConfig `yaml:"app_center"`
}

// AppCenterConfig 应用中心配置
type AppCenterConfig struct {
	DefaultAdministratorsExpression string                   `yaml:"default_administrators_expression"`
	DefaultLimit                    int                      `yaml:"default_limit"`
	IdentityCacheTTL                int                      `yaml:"identity_cache_ttl"` // 秒
	Applications                    []ApplicationDeclaration `yaml:"applications"`
	Memberships                     []MembershipDeclaration  `yaml:"memberships"`
}

// MembershipDeclaration 启动时写入的用户组成员关系
type MembershipDeclaration struct {
	Username string `yaml:"username"`
	Group    string `yaml:"group"`
	Type     string `yaml:"type"`
}

// ApplicationDeclaration 配置声明的系统应用
type ApplicationDeclaration struct {
	Title        string   `yaml:"title"`
	URL          string   `yaml:"url"`
	Description  string   `yaml:"description"`
	ImagePath    string   `yaml:"image_path"`
	Active       *bool    `yaml:"active"`
	Mandatory    bool     `yaml:"mandatory"`
	Permissions  []string `yaml:"permissions"`
	Enabled      *bool    `yaml:"enabled"`
	Override     bool     `yaml:"override"`
	OverrideMode string   `yaml:"override_mode"` // merge, write
}

// IsEnabled 未配置时默认启用
func (d ApplicationDeclaration) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// IsActive 未配置时默认激活
func (d ApplicationDeclaration) IsActive() bool {
	return d.Active == nil || *d.Active
}

// LoadConfig 加载配置文件
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig 解析配置内容并填充默认值
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults 填充默认值
func (c *Config) ApplyDefaults() {
	c.Config.ApplyDefaults()
	if c.AppCenter.DefaultAdministratorsExpression == "" {
		c.AppCenter.DefaultAdministratorsExpression = DefaultAdministratorsExpression
	}
	if c.AppCenter.DefaultLimit <= 0 {
		c.AppCenter.DefaultLimit = DefaultLimit
	}
	if c.AppCenter.IdentityCacheTTL <= 0 {
		c.AppCenter.IdentityCacheTTL = DefaultIdentityCacheTTL
	}
}
