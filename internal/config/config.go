package config

// Config represents the full application configuration.
type Config struct {
	GitHub   GitHubConfig            `mapstructure:"github"`
	YouTube  YouTubeConfig           `mapstructure:"youtube"`
	SendGrid SendGridConfig          `mapstructure:"sendgrid"`
	Notes    NotesConfig             `mapstructure:"notes"`
	Labels   LabelConfig             `mapstructure:"labels"`
	Groups   map[string]GroupConfig  `mapstructure:"groups"`
	People   map[string]PersonConfig `mapstructure:"people"`
}

// GitHubConfig holds issue-tracker credentials.
type GitHubConfig struct {
	Token string `mapstructure:"token"`
}

// YouTubeConfig holds video-platform credentials.
type YouTubeConfig struct {
	APIKey string `mapstructure:"apiKey"`
}

// SendGridConfig holds email-delivery credentials and the sender identity
// used for review notifications.
type SendGridConfig struct {
	APIKey      string `mapstructure:"apiKey"`
	FromAddress string `mapstructure:"fromAddress"`
	ReplyTo     string `mapstructure:"replyTo"`
}

// NotesConfig identifies the repository review notes are committed to.
type NotesConfig struct {
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
}

// LabelConfig maps review lifecycle states to the label names used on the
// issue tracker.
type LabelConfig struct {
	Ready     string `mapstructure:"ready"`
	Blocking  string `mapstructure:"blocking"`
	Approved  string `mapstructure:"approved"`
	NeedsWork string `mapstructure:"needsWork"`
}

// GroupConfig describes one repository group whose review feedback is
// summarized together.
type GroupConfig struct {
	// Suffix is appended to the dated notes folder name, e.g. "2025/03-14-<suffix>".
	Suffix      string              `mapstructure:"suffix"`
	MailingList string              `mapstructure:"mailingList"`
	Repos       []string            `mapstructure:"repos"`
	AreaOwners  map[string][]string `mapstructure:"areaOwners"`
}

// PersonConfig is one verified identity in the reviewer directory, keyed by
// tracker login.
type PersonConfig struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}
