package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Mode          string `mapstructure:"mode"`
	Output        string `mapstructure:"output"`
	Locale        string `mapstructure:"locale"`
	MaxInputBytes int64  `mapstructure:"max_input_bytes"`
	LogLevel      string `mapstructure:"log_level"`
	Strict        bool   `mapstructure:"strict"`
	Preview       bool   `mapstructure:"preview"`
	PreviewStyle  string `mapstructure:"preview_style"`
	ColorFront    string `mapstructure:"color_front"`
	ColorBack     string `mapstructure:"color_back"`
	ColorError    string `mapstructure:"color_error"`
	ColorDim      string `mapstructure:"color_dim"`
	ColorBorder   string `mapstructure:"color_border"`
	ColorCursor   string `mapstructure:"color_cursor"`
	ColorSelected string `mapstructure:"color_selected"`
	ColumnFront   int    `mapstructure:"column_front"`
	ColumnBack    int    `mapstructure:"column_back"`
	ColumnGap     int    `mapstructure:"column_gap"`
}

// DefaultMaxInputBytes is the upload cap applied when none is configured
const DefaultMaxInputBytes = 10 * 1024 * 1024

var (
	validModes   = []string{"auto", "structured", "heuristic"}
	validOutputs = []string{"print", "json", "yaml", "copy"}
	validStyles  = []string{"dark", "light", "notty"}
)

// ErrInvalid is wrapped by every Validate failure
var ErrInvalid = errors.New("invalid configuration")

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	setDefaults()

	viper.SetConfigName("flashparse")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "flashparse"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("FLASHPARSE")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

func setDefaults() {
	viper.SetDefault("mode", "auto")
	viper.SetDefault("output", "print")
	viper.SetDefault("locale", "vi")
	viper.SetDefault("max_input_bytes", DefaultMaxInputBytes)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("strict", false)
	viper.SetDefault("preview", false)
	viper.SetDefault("preview_style", "dark")
	viper.SetDefault("color_front", "36")    // Cyan
	viper.SetDefault("color_back", "32")     // Green
	viper.SetDefault("color_error", "196")   // Red
	viper.SetDefault("color_dim", "240")     // Gray
	viper.SetDefault("color_border", "62")   // Purple
	viper.SetDefault("color_cursor", "212")  // Pink
	viper.SetDefault("color_selected", "57") // Selection background
	viper.SetDefault("column_front", 40)     // Max front width
	viper.SetDefault("column_back", 60)      // Max back width
	viper.SetDefault("column_gap", 4)        // Spaces between columns
}

// Validate checks the values that would otherwise fail deep inside a run
func Validate() error {
	if !oneOf(GetMode(), validModes) {
		return fmt.Errorf("%w: mode %q (want one of %v)", ErrInvalid, GetMode(), validModes)
	}
	if !oneOf(GetOutput(), validOutputs) {
		return fmt.Errorf("%w: output %q (want one of %v)", ErrInvalid, GetOutput(), validOutputs)
	}
	if !oneOf(GetPreviewStyle(), validStyles) {
		return fmt.Errorf("%w: preview_style %q (want one of %v)", ErrInvalid, GetPreviewStyle(), validStyles)
	}
	if GetMaxInputBytes() <= 0 {
		return fmt.Errorf("%w: max_input_bytes must be positive, got %d", ErrInvalid, GetMaxInputBytes())
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// GetMode returns the parse mode
func GetMode() string {
	return viper.GetString("mode")
}

// GetOutput returns the output mode
func GetOutput() string {
	return viper.GetString("output")
}

// GetLocale returns the locale for parse error messages
func GetLocale() string {
	return viper.GetString("locale")
}

// GetMaxInputBytes returns the input size cap
func GetMaxInputBytes() int64 {
	return viper.GetInt64("max_input_bytes")
}

// GetLogLevel returns the zerolog level name
func GetLogLevel() string {
	return viper.GetString("log_level")
}

// GetStrict returns whether parse errors should fail the run
func GetStrict() bool {
	return viper.GetBool("strict")
}

// GetPreview returns whether to open the preview before output
func GetPreview() bool {
	return viper.GetBool("preview")
}

// GetPreviewStyle returns the glamour style for the preview pane
func GetPreviewStyle() string {
	return viper.GetString("preview_style")
}

// GetColorFront returns ANSI color code for card fronts and questions
func GetColorFront() string {
	return viper.GetString("color_front")
}

// GetColorBack returns ANSI color code for card backs and answers
func GetColorBack() string {
	return viper.GetString("color_back")
}

// GetColorError returns ANSI color code for parse errors
func GetColorError() string {
	return viper.GetString("color_error")
}

// GetColorDim returns ANSI color code for secondary text
func GetColorDim() string {
	return viper.GetString("color_dim")
}

// GetColorBorder returns ANSI color code for borders
func GetColorBorder() string {
	return viper.GetString("color_border")
}

// GetColorCursor returns ANSI color code for the cursor
func GetColorCursor() string {
	return viper.GetString("color_cursor")
}

// GetColorSelected returns ANSI color code for the selected row background
func GetColorSelected() string {
	return viper.GetString("color_selected")
}

// GetColumnFront returns max front column width
func GetColumnFront() int {
	return viper.GetInt("column_front")
}

// GetColumnBack returns max back column width
func GetColumnBack() int {
	return viper.GetInt("column_back")
}

// GetColumnGap returns spacing between columns
func GetColumnGap() int {
	return viper.GetInt("column_gap")
}

// SetMode sets parse mode at runtime
func SetMode(mode string) {
	viper.Set("mode", mode)
	C.Mode = mode
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}

// SetLocale sets the message locale at runtime
func SetLocale(locale string) {
	viper.Set("locale", locale)
	C.Locale = locale
}

// SetLogLevel sets the log level at runtime
func SetLogLevel(level string) {
	viper.Set("log_level", level)
	C.LogLevel = level
}
