package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	MySQL  MySQLConfig
	JWT    JWTConfig
	Photo  PhotoConfig
	Email  EmailConfig
}

type ServerConfig struct {
	Port string
}

type MySQLConfig struct {
	User     string
	Password string
	Host     string
	Database string
}

type JWTConfig struct {
	Secret string
	// Token lifetime in hours.
	ExpiresIn int
}

type PhotoConfig struct {
	Dir     string
	BaseURL string
}

type EmailConfig struct {
	// Accepted institutional domains for sign-up and password reset.
	Domains []string
}

// DSN builds the MySQL connection string.
func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@%s/%s?parseTime=true&loc=UTC", m.User, m.Password, m.Host, m.Database)
}

// Load reads config/config.yaml if present and merges environment
// variables over it (MYSQL_USER, PORT, JWT_SECRET, ...). A .env file in
// the working directory is honored the same way.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("mysql.user", "user")
	v.SetDefault("mysql.password", "password")
	v.SetDefault("mysql.host", "tcp(127.0.0.1:3306)")
	v.SetDefault("mysql.database", "bazaar_db")
	v.SetDefault("jwt.secret", "dev-secret")
	v.SetDefault("jwt.expiresin", 168)
	v.SetDefault("photo.dir", "data/photos")
	v.SetDefault("photo.baseurl", "http://localhost:8080/photos")
	v.SetDefault("email.domains", []string{"ucla.edu", "g.ucla.edu"})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	// ALLOWED_EMAIL_DOMAINS=a.edu,b.edu overrides the domain list wholesale.
	if s := v.GetString("allowed.email.domains"); s != "" {
		c.Email.Domains = nil
		for _, d := range strings.Split(s, ",") {
			if d = strings.TrimSpace(d); d != "" {
				c.Email.Domains = append(c.Email.Domains, d)
			}
		}
	}
	return &c, nil
}
