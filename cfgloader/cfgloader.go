// Package cfgloader loads and validates configuration at the start of an application.
package cfgloader

import (
	"fmt"
	"os"
	"reflect"
	"slices"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/catalog/val"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"

	CodeConfigInvalid = "CONFIG_INVALID"
)

// MustLoad loads ./config/${ENVIRONMENT}.yaml into T and exits the process on
// any failure. See Load for the loading steps.
func MustLoad[T any](opts ...Option) T {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		fmt.Fprintln(os.Stderr,
			"[cfgloader]: ENVIRONMENT env variable is not set or invalid. Choices are: production, staging, dev, local, test")
		os.Exit(1)
	}

	cfg, err := Load[T](fmt.Sprintf("./config/%s.yaml", env), opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[cfgloader]: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// Load reads the YAML file at path, expands ${VAR} references from the
// environment, unmarshals it into T, applies `default` tags and validates
// `validate` tags.
func Load[T any](path string, opts ...Option) (T, error) {
	var config T
	o := buildOptions(opts)

	if reflect.ValueOf(&config).Elem().Kind() == reflect.Pointer {
		return config, invalid("type argument must not be a pointer", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeConfigInvalid), errx.WithDetails(errx.D{"path": path}))
	}

	data = []byte(os.ExpandEnv(string(data)))

	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeConfigInvalid), errx.WithDetails(errx.D{"path": path}))
	}

	if err = defaults.Set(&config); err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeConfigInvalid), errx.WithDetails(errx.D{"path": path}))
	}

	if err = val.ValidateSchema(&config); err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeConfigInvalid), errx.WithDetails(errx.D{"path": path}))
	}

	if !o.silent {
		printConfig(o.out, path, config)
	}
	return config, nil
}

func invalid(msg, path string) error {
	return errx.New(msg,
		errx.WithCode(CodeConfigInvalid),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"path": path}),
	)
}
