package config

import (
	"log"
	"reflect"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type KeyListener struct {
	Key      string
	Listener func(any)
}

var listeners []KeyListener

// RegisterKeyListener use in init method don't dynamic update
func RegisterKeyListener(l KeyListener) {
	listeners = append(listeners, l)
}

// Watch reloads the config file on change, refreshes c and notifies the
// listeners whose key changed.
func Watch(v *viper.Viper, c *Config) {
	if v.ConfigFileUsed() == "" {
		return
	}
	previous := snapshot(v)
	v.OnConfigChange(func(fsnotify.Event) {
		triggerUpdate(v, c, previous)
		previous = snapshot(v)
	})
	v.WatchConfig()
}

func snapshot(v *viper.Viper) []any {
	values := make([]any, 0, len(listeners))
	for _, l := range listeners {
		values = append(values, v.Get(l.Key))
	}
	return values
}

func triggerUpdate(v *viper.Viper, c *Config, previous []any) {
	origin := *c
	if err := v.Unmarshal(c); err != nil {
		*c = origin
		log.Printf("failed to dynamic update config file, %v\n", err)
		return
	}

	for i, l := range listeners {
		val := v.Get(l.Key)
		if i < len(previous) && reflect.DeepEqual(val, previous[i]) {
			continue
		}
		if l.Listener != nil {
			l.Listener(val)
		}
	}
}
