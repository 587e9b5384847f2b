package cmd

import (
	"fmt"
	"os"

	"github.com/SREYASABU/Tubenor/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tubenor",
	Short: "Conversational YouTube channel analytics assistant",
	Long: `Tubenor answers natural-language questions about a YouTube channel by
translating them into YouTube Data and Analytics API calls and narrating the
results back as markdown, using a hosted LLM for both ends of the pipeline.

Run 'tubenor serve' for the HTTP API or 'tubenor ask' for a one-shot question.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("addr", ":8080", "HTTP listen address for serve")
	pf.String("db-path", "./tubenor.db", "SQLite database path")
	pf.String("app-name", "tubenor", "Session namespace")
	pf.String("llm-provider", "anthropic", "LLM provider: anthropic, openai")
	pf.String("llm-model", "claude-sonnet-4-20250514", "LLM model to use")
	pf.String("anthropic-api-key", "", "Anthropic API key")
	pf.String("openai-api-key", "", "OpenAI API key")
	pf.String("yt-client-id", "", "YouTube OAuth client id")
	pf.String("yt-client-secret", "", "YouTube OAuth client secret")
	pf.String("yt-refresh-token", "", "Long-lived YouTube OAuth refresh token")
	pf.String("redirect-uri", "http://localhost:8080/auth/callback", "OAuth redirect URI")
	pf.Bool("verbose", false, "Verbose logging")
	pf.String("config", "", "Path to YAML config file")

	// Bind flags to viper
	flags := []string{
		"addr", "db-path", "app-name", "llm-provider", "llm-model",
		"anthropic-api-key", "openai-api-key",
		"yt-client-id", "yt-client-secret", "yt-refresh-token", "redirect-uri",
		"verbose", "config",
	}
	for _, f := range flags {
		_ = viper.BindPFlag(f, pf.Lookup(f))
	}
}

func initConfig() {
	cfg = config.DefaultConfig()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("")
	viper.AutomaticEnv()

	// Bind environment variables
	_ = viper.BindEnv("anthropic-api-key", "ANTHROPIC_API_KEY")
	_ = viper.BindEnv("openai-api-key", "OPENAI_API_KEY")
	_ = viper.BindEnv("yt-client-id", "YT_CLIENT_ID")
	_ = viper.BindEnv("yt-client-secret", "YT_CLIENT_SECRET")
	_ = viper.BindEnv("yt-refresh-token", "YT_REFRESH_TOKEN")
	_ = viper.BindEnv("redirect-uri", "OAUTH_REDIRECT_URI")
	_ = viper.BindEnv("addr", "TUBENOR_ADDR")
	_ = viper.BindEnv("db-path", "TUBENOR_DB_PATH")
	_ = viper.BindEnv("app-name", "TUBENOR_APP_NAME")
	_ = viper.BindEnv("llm-provider", "TUBENOR_LLM_PROVIDER")
	_ = viper.BindEnv("llm-model", "TUBENOR_LLM_MODEL")
	_ = viper.BindEnv("verbose", "TUBENOR_VERBOSE")

	_ = viper.ReadInConfig()

	// Apply viper values to config
	if v := viper.GetString("addr"); v != "" {
		cfg.Addr = v
	}
	if v := viper.GetString("db-path"); v != "" {
		cfg.DBPath = v
	}
	if v := viper.GetString("app-name"); v != "" {
		cfg.AppName = v
	}
	if v := viper.GetString("llm-provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm-model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("anthropic-api-key"); v != "" {
		cfg.LLM.AnthropicKey = v
	}
	if v := viper.GetString("openai-api-key"); v != "" {
		cfg.LLM.OpenAIKey = v
	}
	if v := viper.GetString("yt-client-id"); v != "" {
		cfg.YouTube.ClientID = v
	}
	if v := viper.GetString("yt-client-secret"); v != "" {
		cfg.YouTube.ClientSecret = v
	}
	if v := viper.GetString("yt-refresh-token"); v != "" {
		cfg.YouTube.RefreshToken = v
	}
	if v := viper.GetString("redirect-uri"); v != "" {
		cfg.YouTube.RedirectURI = v
	}
	cfg.Verbose = viper.GetBool("verbose")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
