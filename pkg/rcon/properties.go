package rcon

import (
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/magiconair/properties"
)

const (
	// PropertiesFile is the server settings file every loader writes.
	PropertiesFile = "server.properties"
	// DefaultPort is the rcon.port default.
	DefaultPort = 25575
	defaultHost = "127.0.0.1"
)

// ErrDisabled is returned when server.properties does not enable RCON.
var ErrDisabled = errors.New("RCON is not enabled in " + PropertiesFile)

// Settings are the RCON coordinates of a local server.
type Settings struct {
	Host     string
	Port     int
	Password string
}

// Address returns host:port.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Validate rejects settings no server would accept.
func (s Settings) Validate() error {
	switch {
	case s.Host == "":
		return errors.New("RCON host cannot be empty")
	case s.Port <= 0 || s.Port > 65535:
		return errors.Newf("invalid RCON port: %d", s.Port)
	case s.Password == "":
		return errors.New("rcon.password is empty; the server refuses RCON without one")
	}

	return nil
}

// ReadSettings reads the RCON settings from dir/server.properties.
func ReadSettings(dir string) (Settings, error) {
	path := filepath.Join(dir, PropertiesFile)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, errors.Wrapf(ErrDisabled, "%s does not exist", path)
	}

	if err != nil {
		return Settings{}, errors.Wrapf(err, "failed to read %s", path)
	}

	// Passwords may contain "${", so no expansion.
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}

	props, err := l.LoadBytes(data)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "failed to parse %s", path)
	}

	if !props.GetBool("enable-rcon", false) {
		return Settings{}, ErrDisabled
	}

	return Settings{
		Host:     props.GetString("server-ip", ""),
		Port:     props.GetInt("rcon.port", DefaultPort),
		Password: props.GetString("rcon.password", ""),
	}.withDefaults(), nil
}

func (s Settings) withDefaults() Settings {
	if s.Host == "" {
		s.Host = defaultHost
	}

	return s
}
