package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jRPC "github.com/0xPolygon/cdk-rpc/rpc"
	"github.com/0xPolygon/lanebridge/chain"
	"github.com/0xPolygon/lanebridge/common"
	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/exporter"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/0xPolygon/lanebridge/node"
	"github.com/0xPolygon/lanebridge/relay"
	"github.com/0xPolygon/lanebridge/router"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

const (
	// FlagCfg is the flag for cfg.
	FlagCfg = "cfg"
	// FlagComponents is the flag for components.
	FlagComponents = "components"
	// FlagSaveConfigPath is the flag to save the final configuration file
	FlagSaveConfigPath = "save-config-path"

	EnvVarPrefix       = "LANES"
	ConfigType         = "toml"
	SaveConfigFileName = "lanebridge_config.toml"

	DefaultCreationFilePermissions = os.FileMode(0600)
)

/*
Config represents the configuration of a lanebridge node.
The file is [TOML format], values not set by the user are taken from DefaultValues.

[TOML format]: https://en.wikipedia.org/wiki/TOML
*/
type Config struct {
	// Configure Log level for all the services, allow also to store the logs in a file
	Log log.Config
	// Common Config that affects all the services
	Common common.Config
	// Chain is the state transition configuration: database, weights and pruning
	Chain chain.Config
	// Lanes are the outbound/inbound lanes this chain is configured for
	Lanes []lane.Config
	// Congestion is the configuration of the channel congestion and fee controller
	Congestion congestion.Config
	// Fees is the configuration of the delivery fee quote
	Fees exporter.FeeConfig
	// Router is the configuration of the upward and horizontal channels
	Router router.Config
	// Node is the configuration of the block loop
	Node node.Config
	// Relay is the configuration of the bridge relayer
	Relay relay.Config
	// RPC is the config for the RPC server
	RPC jRPC.Config
}

// Load loads the configuration
func Load(ctx *cli.Context) (*Config, error) {
	files, err := readFiles(ctx.StringSlice(FlagCfg))
	if err != nil {
		return nil, fmt.Errorf("error reading files:  Err:%w", err)
	}
	return LoadFile(files, ctx.String(FlagSaveConfigPath))
}

func readFiles(paths []string) ([]FileData, error) {
	result := make([]FileData, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading file content: %s. Err:%w", path, err)
		}
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		converted, err := toToml(string(content), ext)
		if err != nil {
			return nil, fmt.Errorf("error converting file: %s from %s to TOML. Err:%w", path, ext, err)
		}
		result = append(result, FileData{Name: path, Content: converted})
	}
	return result, nil
}

// LoadFile renders the defaults plus the given files and decodes the result
func LoadFile(files []FileData, saveConfigPath string) (*Config, error) {
	all := make([]FileData, 0, len(files)+2) //nolint:gomnd
	all = append(all,
		FileData{Name: "default_vars", Content: DefaultVars},
		FileData{Name: "default_values", Content: DefaultValues})
	all = append(all, files...)

	rendered, err := NewRenderer(all, EnvVarPrefix).Render()
	if err != nil {
		return nil, err
	}
	if saveConfigPath != "" {
		fullPath := filepath.Join(saveConfigPath, SaveConfigFileName)
		if err := os.WriteFile(fullPath, []byte(rendered), DefaultCreationFilePermissions); err != nil {
			err = fmt.Errorf("error writing config file: %s. Err: %w", fullPath, err)
			log.Error(err)
			return nil, err
		}
	}
	return LoadFileFromString(rendered, ConfigType)
}

// LoadFileFromString decodes an already rendered config
func LoadFileFromString(configData string, configType string) (*Config, error) {
	cfg := &Config{}
	if err := loadString(cfg, configData, configType, true, EnvVarPrefix); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadString(cfg *Config, configData string, configType string, allowEnvVars bool, envPrefix string) error {
	v := viper.New()
	v.SetConfigType(configType)
	if allowEnvVars {
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.SetEnvPrefix(envPrefix)
		v.AutomaticEnv()
	}
	if err := v.ReadConfig(bytes.NewBufferString(configData)); err != nil {
		return err
	}
	decodeHooks := []viper.DecoderConfigOption{
		// this allows arrays to be decoded from env var separated by ",", example: MY_VAR="value1,value2,value3"
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(), mapstructure.StringToSliceHookFunc(","))),
	}
	return v.Unmarshal(cfg, decodeHooks...)
}
