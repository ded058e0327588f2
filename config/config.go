package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appname  string `yaml:"appname"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Secret    string `yaml:"secret"`
	UploadDir string `yaml:"upload_dir"`
	SiteURL   string `yaml:"site_url"`
}

type DBConfig struct {
	Type    string `yaml:"type"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Name    string `yaml:"name"`
	User    string `yaml:"user"`
	Passwd  string `yaml:"passwd"`
	MaxConn int    `yaml:"max_conn"`
	IdleConn int   `yaml:"idle_conn"`
	Debug   bool   `yaml:"debug"`
}

type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// AuthConfig selects the credential-check policy for the admin console.
// Policy is one of "static" or "ldap".
type AuthConfig struct {
	Policy string     `yaml:"policy"`
	Ldap   LdapConfig `yaml:"ldap"`
}

type LdapConfig struct {
	Addr       string `yaml:"addr"`
	BaseDN     string `yaml:"basedn"`
	BindDN     string `yaml:"binddn"`
	BindPasswd string `yaml:"bind_passwd"`
	UserAttr   string `yaml:"user_attr"`
	Istls      bool   `yaml:"istls"`
}

type SmtpConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig   `yaml:"system"`
	Web      WebConfig   `yaml:"web"`
	Database DBConfig    `yaml:"database"`
	Admin    AdminConfig `yaml:"admin"`
	Auth     AuthConfig  `yaml:"auth"`
	Smtp     SmtpConfig  `yaml:"smtp"`
	Logger   LogConfig   `yaml:"logger"`
}

// UploadRoot resolves the shared upload directory, workdir-relative when the
// configured path is not absolute.
func (c *AppConfig) UploadRoot() string {
	dir := c.Web.UploadDir
	if dir == "" {
		dir = "uploads"
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.System.Workdir, dir)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appname:  "SiteCMS",
		Location: "Asia/Kolkata",
		Workdir:  "/var/sitecms",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      5023,
		Secret:    "9b6d0f6a-net-sitecms",
		UploadDir: "uploads",
		SiteURL:   "http://localhost:5023",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "sitecms",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Admin: AdminConfig{
		Username: "admin",
		Password: "sitecms",
	},
	Auth: AuthConfig{
		Policy: "static",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/sitecms/sitecms.log",
	},
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok {
		*val = cast.ToBool(v)
	}
}

func setEnvIntValue(name string, val *int) {
	if v, ok := os.LookupEnv(name); ok {
		*val = cast.ToInt(v)
	}
}

// LoadConfig reads the YAML config file, starting from defaults; environment
// variables override the result. A missing file is not an error.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("SITECMS_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("SITECMS_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("SITECMS_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("SITECMS_WEB_PORT", &cfg.Web.Port)
	setEnvValue("SITECMS_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("SITECMS_WEB_UPLOAD_DIR", &cfg.Web.UploadDir)
	setEnvValue("SITECMS_WEB_SITE_URL", &cfg.Web.SiteURL)

	setEnvValue("SITECMS_DB_TYPE", &cfg.Database.Type)
	setEnvValue("SITECMS_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("SITECMS_DB_PORT", &cfg.Database.Port)
	setEnvValue("SITECMS_DB_NAME", &cfg.Database.Name)
	setEnvValue("SITECMS_DB_USER", &cfg.Database.User)
	setEnvValue("SITECMS_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("SITECMS_ADMIN_USERNAME", &cfg.Admin.Username)
	setEnvValue("SITECMS_ADMIN_PASSWORD", &cfg.Admin.Password)

	setEnvValue("SITECMS_SMTP_HOST", &cfg.Smtp.Host)
	setEnvIntValue("SITECMS_SMTP_PORT", &cfg.Smtp.Port)
	setEnvValue("SITECMS_SMTP_USERNAME", &cfg.Smtp.Username)
	setEnvValue("SITECMS_SMTP_PASSWORD", &cfg.Smtp.Password)

	return cfg
}

// WriteDefaultConfig writes the default configuration to the given path.
func WriteDefaultConfig(cfile string) error {
	data, err := yaml.Marshal(DefaultAppConfig)
	if err != nil {
		return err
	}
	return os.WriteFile(cfile, data, 0644)
}
