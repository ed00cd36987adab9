package madpascal

import (
	"github.com/goplus/build-mad-pascal/internal/config"
	"github.com/goplus/build-mad-pascal/internal/env"
)

// Namespace prefixes every option key.
const Namespace = env.Name

// Option names.
const (
	OptInstallPath        = "MadPascalPath"
	OptAssemblerArgs      = "MadAssemblerArguments"
	OptManageDependencies = "manageDependencies"
	OptAlwaysEligible     = "alwaysEligible"
)

// Keys observed by the provider.
const (
	KeyInstallPath   = Namespace + "." + OptInstallPath
	KeyAssemblerArgs = Namespace + "." + OptAssemblerArgs
)

// EnvBindings maps environment variables to the keys they override.
var EnvBindings = map[string]string{
	"BUILD_MAD_PASCAL_PATH":           KeyInstallPath,
	"BUILD_MAD_PASCAL_ASSEMBLER_ARGS": KeyAssemblerArgs,
}

// DefaultInstallPath returns the default install directory for goos.
func DefaultInstallPath(goos string) string {
	if goos == "windows" {
		return `\Atari\MAD_PASCAL\`
	}
	return "/opt/MAD_PASCAL/"
}

// Schema returns the configuration schema for goos.
func Schema(goos string) config.Schema {
	return config.Schema{
		OptInstallPath: {
			Title:       "Mad-Pascal Exec Path",
			Description: "Directory containing the Mad-Pascal `mp` and Mad-Assembler `mads` executables, including the trailing separator",
			Type:        config.TypeString,
			Default:     DefaultInstallPath(goos),
			Order:       0,
		},
		OptAssemblerArgs: {
			Title:       "Mad-Assembler Arguments",
			Description: "Extra space-separated arguments passed to `mads` after the active file",
			Type:        config.TypeString,
			Default:     "-x -i:base",
			Order:       1,
		},
		OptManageDependencies: {
			Title:       "Manage Dependencies",
			Description: "When enabled, third-party dependencies will be installed automatically",
			Type:        config.TypeBoolean,
			Default:     true,
			Order:       2,
		},
		OptAlwaysEligible: {
			Title:       "Always Eligible",
			Description: "The build provider will be available in your project, even when not eligible",
			Type:        config.TypeBoolean,
			Default:     false,
			Order:       3,
		},
	}
}

// Config is a typed snapshot of the options.
type Config struct {
	InstallPath        string
	AssemblerArgs      string
	ManageDependencies bool
	AlwaysEligible     bool
}

// LoadConfig reads the options from s. Missing or mistyped values take the
// schema default for goos.
func LoadConfig(s config.Store, goos string) Config {
	schema := Schema(goos)
	return Config{
		InstallPath:        schema.String(s, Namespace, OptInstallPath),
		AssemblerArgs:      schema.String(s, Namespace, OptAssemblerArgs),
		ManageDependencies: schema.Bool(s, Namespace, OptManageDependencies),
		AlwaysEligible:     schema.Bool(s, Namespace, OptAlwaysEligible),
	}
}
