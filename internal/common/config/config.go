package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type DB struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Pass     string `yaml:"password"`
	Name     string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
}

type MQ struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	User   string `yaml:"user"`
	Pass   string `yaml:"password"`
	VHost  string `yaml:"vhost"`
	UseTLS bool   `yaml:"tls"`
}

type HTTP struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Cart selects the persistence port behind the cart manager.
type Cart struct {
	Store string `yaml:"store"` // memory | file | postgres
	Path  string `yaml:"path"`
}

// Client configures the table-status updater.
type Client struct {
	BaseURL     string        `yaml:"base_url"`
	ReloadDelay time.Duration `yaml:"reload_delay"`
}

type App struct {
	Database DB     `yaml:"database"`
	Rabbit   MQ     `yaml:"rabbitmq"`
	HTTP     HTTP   `yaml:"http"`
	Cart     Cart   `yaml:"cart"`
	Client   Client `yaml:"client"`
}

func Default() App {
	return App{
		Database: DB{Port: 5432, SSLMode: "disable", MaxConns: 10},
		Rabbit:   MQ{Port: 5672, VHost: "/"},
		HTTP: HTTP{
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Cart:   Cart{Store: "file", Path: "cart.json"},
		Client: Client{BaseURL: "http://localhost:8080", ReloadDelay: time.Second},
	}
}

// Load reads the YAML file at path on top of Default and applies COFFEE_* overrides.
func Load(path string) (App, error) {
	a := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return App{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &a); err != nil {
		return App{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	a.applyEnvOverrides()
	return a, nil
}

// LoadOrDefault uses FindConfig and falls back to defaults plus env when nothing is found.
func LoadOrDefault(path string) (App, error) {
	if path == "" {
		p, err := FindConfig()
		if errors.Is(err, fs.ErrNotExist) {
			a := Default()
			a.applyEnvOverrides()
			return a, nil
		}
		path = p
	}
	return Load(path)
}

func (a *App) applyEnvOverrides() {
	setStr(&a.Database.Host, "COFFEE_DB_HOST")
	setInt(&a.Database.Port, "COFFEE_DB_PORT")
	setStr(&a.Database.User, "COFFEE_DB_USER")
	setStr(&a.Database.Pass, "COFFEE_DB_PASSWORD")
	setStr(&a.Database.Name, "COFFEE_DB_NAME")
	setStr(&a.Rabbit.Host, "COFFEE_MQ_HOST")
	setInt(&a.Rabbit.Port, "COFFEE_MQ_PORT")
	setStr(&a.Rabbit.User, "COFFEE_MQ_USER")
	setStr(&a.Rabbit.Pass, "COFFEE_MQ_PASSWORD")
	setInt(&a.HTTP.Port, "COFFEE_HTTP_PORT")
	setStr(&a.Cart.Store, "COFFEE_CART_STORE")
	setStr(&a.Cart.Path, "COFFEE_CART_PATH")
	setStr(&a.Client.BaseURL, "COFFEE_BASE_URL")
	setDuration(&a.Client.ReloadDelay, "COFFEE_RELOAD_DELAY")
}

// ValidateServer checks what the shop service needs to start.
func (a App) ValidateServer() error {
	if a.Database.Host == "" || a.Database.User == "" || a.Database.Name == "" {
		return errors.New("invalid config: database host/user/database required")
	}
	if a.Rabbit.Host == "" || a.Rabbit.User == "" {
		return errors.New("invalid config: rabbitmq host/user required")
	}
	if a.HTTP.Port <= 0 || a.HTTP.Port > 65535 {
		return fmt.Errorf("invalid config: http port %d", a.HTTP.Port)
	}
	return nil
}

func (d DB) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Pass),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
		RawQuery: url.Values{
			"sslmode":        {d.SSLMode},
			"pool_max_conns": {strconv.Itoa(d.MaxConns)},
		}.Encode(),
	}
	return u.String()
}

func (m MQ) URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(m.User, m.Pass),
		Host:   net.JoinHostPort(m.Host, strconv.Itoa(m.Port)),
		Path:   "/",
	}
	if m.UseTLS {
		u.Scheme = "amqps"
	}
	if m.VHost != "" && m.VHost != "/" {
		u.Path = "/" + m.VHost
	}
	return u.String()
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}

func setStr(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
