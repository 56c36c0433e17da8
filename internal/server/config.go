package server

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	Address  string `toml:"address"`
	Port     int    `toml:"port"`
	Datapath string `toml:"datapath"`
	Confine  bool   `toml:"confine"`
}

// LoadOptions reads a TOML config file and returns an option that
// applies only the keys the file actually defines, so file values
// override defaults without clobbering the rest.
func LoadOptions(path string) (func(*Options), error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}

	if meta.IsDefined("port") && (raw.Port < 1 || raw.Port > 65535) {
		return nil, fmt.Errorf("server config port out of range: %v", raw.Port)
	}
	if meta.IsDefined("datapath") && strings.TrimSpace(raw.Datapath) == "" {
		return nil, fmt.Errorf("server config datapath is empty")
	}

	return func(o *Options) {
		if meta.IsDefined("address") {
			if addr := strings.TrimSpace(raw.Address); addr != "" {
				o.Address = addr
			}
		}
		if meta.IsDefined("port") {
			o.Port = raw.Port
		}
		if meta.IsDefined("datapath") {
			o.Datapath = raw.Datapath
		}
		if meta.IsDefined("confine") {
			o.ConfineToDatapath = raw.Confine
		}
	}, nil
}
