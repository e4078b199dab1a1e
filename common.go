package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

const configFileName = ".pronotecal.toml"
const dbFileName = ".pronotecal.db"

// defaultAccount keys the single OAuth token in the tokens table. The
// system syncs exactly one calendar, so there is only ever one account.
const defaultAccount = "default"

type PronoteConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	CalendarID   string `toml:"calendar_id"`
}

type CalDAVConfig struct {
	Name        string `toml:"name"`
	ServerURL   string `toml:"server_url"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
	CalendarURL string `toml:"calendar_url"`
}

type SyncConfig struct {
	Provider               string `toml:"provider"`      // "google" (default) or "caldav"
	CalDAVServer           string `toml:"caldav_server"` // key into the [caldav.*] tables
	DaysAhead              int    `toml:"days_ahead"`
	EventDurationHours     int    `toml:"event_duration_hours"`
	ExamEventDurationHours int    `toml:"exam_event_duration_hours"`
	ExamSyncEnabled        bool   `toml:"exam_sync_enabled"`
	ExamLookbackDays       int    `toml:"exam_lookback_days"`
	StudyRemindersEnabled  bool   `toml:"study_reminders_enabled"`
	DisableReminders       bool   `toml:"disable_reminders"`
	Timezone               string `toml:"timezone"`
	DryRun                 bool   `toml:"dry_run"`
	VerbosityLevel         int    `toml:"verbosity_level"`
}

// Config is built once at process start and passed down read-only.
type Config struct {
	Pronote PronoteConfig           `toml:"pronote"`
	Google  GoogleConfig            `toml:"google"`
	Sync    SyncConfig              `toml:"sync"`
	CalDAVs map[string]CalDAVConfig `toml:"caldav"`

	loc *time.Location
}

func (c *Config) Location() *time.Location { return c.loc }

var oauthConfig *oauth2.Config
var configDir string
var verbosityLevel int

func initOAuthConfig(config *Config) {
	oauthConfig = &oauth2.Config{
		ClientID:     config.Google.ClientID,
		ClientSecret: config.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{calendar.CalendarScope},
	}
}

func readConfig(filename string) (*Config, error) {
	// Try first current dir, then `$HOME/.config/pronotecal/`
	data, err := os.ReadFile(filename)
	if err != nil {
		data, err = os.ReadFile(os.Getenv("HOME") + "/.config/pronotecal/" + filename)
		if err != nil {
			return nil, err
		}
		configDir = os.Getenv("HOME") + "/.config/pronotecal/"
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(config.Sync.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", config.Sync.Timezone, err)
	}
	config.loc = loc

	verbosityLevel = config.Sync.VerbosityLevel

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Sync.Provider == "" {
		config.Sync.Provider = "google"
	}
	if config.Sync.DaysAhead == 0 {
		config.Sync.DaysAhead = 30
	}
	if config.Sync.EventDurationHours == 0 {
		config.Sync.EventDurationHours = 2
	}
	if config.Sync.ExamEventDurationHours == 0 {
		config.Sync.ExamEventDurationHours = 1
	}
	if config.Sync.ExamLookbackDays == 0 {
		config.Sync.ExamLookbackDays = 60
	}
	if config.Sync.Timezone == "" {
		config.Sync.Timezone = "Europe/Paris"
	}
}

func validateConfig(config *Config) error {
	var missing []string
	if config.Pronote.URL == "" {
		missing = append(missing, "pronote.url")
	}
	if config.Pronote.Username == "" {
		missing = append(missing, "pronote.username")
	}
	if config.Pronote.Password == "" {
		missing = append(missing, "pronote.password")
	}
	switch config.Sync.Provider {
	case "google":
		if config.Google.CalendarID == "" {
			missing = append(missing, "google.calendar_id")
		}
	case "caldav":
		if config.Sync.CalDAVServer == "" {
			missing = append(missing, "sync.caldav_server")
		} else if server, ok := config.CalDAVs[config.Sync.CalDAVServer]; !ok {
			return fmt.Errorf("CalDAV server %q not found in configuration", config.Sync.CalDAVServer)
		} else if server.CalendarURL == "" {
			missing = append(missing, "caldav."+config.Sync.CalDAVServer+".calendar_url")
		}
	default:
		return fmt.Errorf("unsupported provider type: %s", config.Sync.Provider)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func openDB(filename string) (*sql.DB, error) {
	// Try first the same dir, where the config file was found
	db, err := sql.Open("sqlite3", configDir+filename)
	if err != nil {
		// Try the current dir
		db, err = sql.Open("sqlite3", filename)
		if err != nil {
			return nil, err
		}
	}
	return db, nil
}

func getTokenFromWeb(config *oauth2.Config) *oauth2.Token {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		log.Fatalf("Unable to read authorization code: %v", err)
	}

	tok, err := config.Exchange(context.TODO(), authCode)
	if err != nil {
		log.Fatalf("Unable to retrieve token from web: %v", err)
	}
	return tok
}

func saveToken(db *sql.DB, accountName string, token *oauth2.Token) error {
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return err
	}

	_, err = db.Exec("INSERT OR REPLACE INTO tokens (account_name, token) VALUES (?, ?)", accountName, tokenJSON)
	return err
}

// getClient returns an authenticated HTTP client for the Google Calendar
// API, refreshing and re-persisting the stored token when needed. A missing
// token is an AuthError: the user has to run `pronote-cal auth` first.
func getClient(ctx context.Context, config *oauth2.Config, db *sql.DB, accountName string) (*http.Client, error) {
	var tokenJSON []byte
	err := db.QueryRow("SELECT token FROM tokens WHERE account_name = ?", accountName).Scan(&tokenJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &AuthError{Service: "google", Err: fmt.Errorf("no stored token; run `pronote-cal auth` first")}
		}
		return nil, fmt.Errorf("retrieving token from database: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("unmarshaling token: %w", err)
	}

	tokenSource := config.TokenSource(ctx, &token)
	newToken, err := tokenSource.Token()
	if err != nil {
		if strings.Contains(err.Error(), "expired or revoked") {
			return nil, &AuthError{Service: "google", Err: fmt.Errorf("token expired or revoked; run `pronote-cal auth` again")}
		}
		return nil, &AuthError{Service: "google", Err: err}
	}

	if newToken.AccessToken != token.AccessToken {
		printVerbosely(2, "  🔑 Token refreshed for account %s\n", accountName)
		if err := saveToken(db, accountName, newToken); err != nil {
			log.Printf("Warning: failed to persist refreshed token: %v", err)
		}
	}

	return config.Client(ctx, newToken), nil
}

func printVerbosely(verbosity int, format string, a ...interface{}) {
	// Print only if verbosity is higher than verbosityLevel
	// verbosityLevel is set in the config file
	// 0 - no output, other than critical errors
	// 1 - run milestones and warnings
	// 2 - per-assignment decisions (create/update)
	// 3 - skipped assignments
	// 4 - everything, including lookups
	if verbosity <= verbosityLevel {
		fmt.Printf(format, a...)
	}
}
