// Package config provides centralized configuration management for the application.
package config

import (
	"strings"

	"github.com/spf13/viper"

	recaperrors "github.com/recap-cli/recap/pkg/errors"
)

// defaultSSOOrgs lists organizations behind SAML SSO. The personal
// token gets 403s for their repositories, so the secondary fetch
// skips them.
const defaultSSOOrgs = "vercel"

// Config holds all configuration parameters for the application.
// It is constructed once at startup and passed by parameter; nothing
// reads the environment after LoadConfig returns.
type Config struct {
	Linear    LinearConfig
	GitHub    GitHubConfig
	Anthropic AnthropicConfig
	Notion    NotionConfig
}

// LinearConfig holds Linear specific configuration.
type LinearConfig struct {
	APIKey string
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	// Token is the primary token, authorized for SSO organizations.
	Token string

	// Username is the GitHub login whose PRs are aggregated.
	Username string

	// PersonalToken is the optional secondary token for repositories
	// the primary token cannot see.
	PersonalToken string

	// SSOOrgs is the deny-list of organizations skipped when fetching
	// with the personal token.
	SSOOrgs []string
}

// AnthropicConfig holds text-generation service configuration.
type AnthropicConfig struct {
	APIKey string
}

// NotionConfig holds Notion workspace configuration.
type NotionConfig struct {
	APIKey string
	PageID string
}

// LoadConfig initializes and loads configuration from environment variables.
// Validation is per destination: commands call the Validate* helpers
// for the capabilities they actually use.
func LoadConfig() (*Config, error) {
	// Initialize Viper for environment variables
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Map specific environment variables
	v.BindEnv("linear.api_key", "LINEAR_API_KEY")
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.username", "GITHUB_USERNAME")
	v.BindEnv("github.personal_token", "PERSONAL_GITHUB_TOKEN")
	v.BindEnv("github.sso_orgs", "GITHUB_SSO_ORGS")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("notion.api_key", "NOTION_API_KEY")
	v.BindEnv("notion.page_id", "NOTION_PAGE_ID")

	v.SetDefault("github.sso_orgs", defaultSSOOrgs)

	config := &Config{
		Linear: LinearConfig{
			APIKey: v.GetString("linear.api_key"),
		},
		GitHub: GitHubConfig{
			Token:         v.GetString("github.token"),
			Username:      v.GetString("github.username"),
			PersonalToken: v.GetString("github.personal_token"),
			SSOOrgs:       splitOrgs(v.GetString("github.sso_orgs")),
		},
		Anthropic: AnthropicConfig{
			APIKey: v.GetString("anthropic.api_key"),
		},
		Notion: NotionConfig{
			APIKey: v.GetString("notion.api_key"),
			PageID: v.GetString("notion.page_id"),
		},
	}

	return config, nil
}

// splitOrgs parses a comma-separated org list, trimming whitespace
// and dropping empty entries.
func splitOrgs(s string) []string {
	var orgs []string
	for _, org := range strings.Split(s, ",") {
		org = strings.TrimSpace(org)
		if org != "" {
			orgs = append(orgs, strings.ToLower(org))
		}
	}
	return orgs
}

// ValidateLinearConfig validates Linear-specific configuration.
func ValidateLinearConfig(config *Config) error {
	if config.Linear.APIKey == "" {
		return recaperrors.NewConfigError("LINEAR_API_KEY", "missing required environment variable")
	}
	return nil
}

// ValidateGitHubConfig validates GitHub-specific configuration.
func ValidateGitHubConfig(config *Config) error {
	var missingVars []string

	if config.GitHub.Token == "" {
		missingVars = append(missingVars, "GITHUB_TOKEN")
	}
	if config.GitHub.Username == "" {
		missingVars = append(missingVars, "GITHUB_USERNAME")
	}

	if len(missingVars) > 0 {
		return recaperrors.NewConfigError(strings.Join(missingVars, ", "), "missing required environment variables")
	}
	return nil
}

// ValidateAnthropicConfig validates text-generation configuration.
func ValidateAnthropicConfig(config *Config) error {
	if config.Anthropic.APIKey == "" {
		return recaperrors.NewConfigError("ANTHROPIC_API_KEY", "missing required environment variable")
	}
	return nil
}

// ValidateNotionConfig validates Notion-specific configuration.
func ValidateNotionConfig(config *Config) error {
	var missingVars []string

	if config.Notion.APIKey == "" {
		missingVars = append(missingVars, "NOTION_API_KEY")
	}
	if config.Notion.PageID == "" {
		missingVars = append(missingVars, "NOTION_PAGE_ID")
	}

	if len(missingVars) > 0 {
		return recaperrors.NewConfigError(strings.Join(missingVars, ", "), "missing required environment variables")
	}
	return nil
}
