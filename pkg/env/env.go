// Package env loads process configuration from environment variables via
// reflection over struct tags, instead of a flags or viper layer.
package env

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/ordermesh/orderflow/pkg/console"
)

// GetenvOrDefault returns os.Getenv(key), or defaultValue when unset/blank.
func GetenvOrDefault(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	return defaultValue
}

// GetenvIntOrDefault returns os.Getenv(key) parsed as int64, or
// defaultValue when unset or unparsable.
func GetenvIntOrDefault(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return defaultValue
	}

	return v
}

// GetenvBoolOrDefault returns os.Getenv(key) parsed as bool, or
// defaultValue when unset or unparsable.
func GetenvBoolOrDefault(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}

	return v
}

var (
	loadOnce sync.Once
)

// Load reads a .env file into the process environment, once, when the
// environment name is "local". The name is envName, or ENV_NAME (default
// "local") when envName is empty. It never fails the process: a missing
// .env file is reported on stdout and otherwise ignored.
func Load(envName string) {
	fmt.Println(console.Title("orderflow"))

	name := GetenvOrDefault("ENV_NAME", "local")
	if envName != "" {
		name = envName
	}

	fmt.Printf("environment (%s)\n", name)

	if name == "local" {
		loadOnce.Do(func() {
			if err := godotenv.Load(); err != nil {
				fmt.Println("no .env file found, using process environment")
			} else {
				fmt.Println("env vars loaded from .env file")
			}
		})
	}

	fmt.Println(console.Line(console.DefaultLineSize))
}

// SetFromEnvVars populates the fields of the struct pointed to by s using
// each field's `env:"KEY"` tag. Supported kinds: string, bool, and the
// integer family.
func SetFromEnvVars(s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("env: SetFromEnvVars requires a non-nil pointer")
	}

	elem := v.Elem()
	t := elem.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		tag, ok := field.Tag.Lookup("env")
		if !ok || tag == "" {
			continue
		}

		fv := elem.Field(i)
		if !fv.CanSet() {
			continue
		}

		switch fv.Kind() {
		case reflect.Bool:
			fv.SetBool(GetenvBoolOrDefault(tag, fv.Bool()))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fv.SetInt(GetenvIntOrDefault(tag, fv.Int()))
		default:
			if s, ok := os.LookupEnv(tag); ok {
				fv.SetString(s)
			}
		}
	}

	return nil
}
