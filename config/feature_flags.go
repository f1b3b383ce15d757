package config

import (
	"fmt"
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FeatureFlags manages feature toggles with percentage rollout.
// A user lands in the same bucket for a feature on every call.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature

	// Override rules (for testing/debugging)
	userOverrides map[uuid.UUID]map[string]bool

	now func() time.Time
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Users are assigned based on hash of their ID
	RolloutPercent int

	// Skill level targeting; empty means everyone
	TargetSkillLevels []string

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	UserID     uuid.UUID
	SkillLevel string
}

// Predefined feature flag names.
const (
	// Use the remote recognizer when one is configured
	FeatureRemoteRecognition = "recognition.remote"

	// Serve leaderboard listings from Redis
	FeatureLeaderboardCache = "leaderboard.cache"

	// Notifications created by event handlers
	FeatureNotifyWelcome     = "notify.welcome"
	FeatureNotifyAchievement = "notify.achievement"
	FeatureNotifyLevelUp     = "notify.level_up"
)

// LoadFeatureFlags builds the flag set from defaults, then config overrides,
// then environment variables.
// Override format: true|false|<percent>.
func LoadFeatureFlags(overrides map[string]string) (*FeatureFlags, error) {
	ff := NewFeatureFlags()

	for name, val := range overrides {
		if err := ff.apply(name, val); err != nil {
			return nil, err
		}
	}

	ff.loadFromEnvironment()

	return ff, nil
}

// NewFeatureFlags returns the default flag set.
func NewFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:      make(map[string]*Feature),
		userOverrides: make(map[uuid.UUID]map[string]bool),
		now:           time.Now,
	}
	ff.initializeDefaults()
	return ff
}

func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureRemoteRecognition] = &Feature{
		Name:           FeatureRemoteRecognition,
		Description:    "Fetch recognition feedback from the remote service",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureLeaderboardCache] = &Feature{
		Name:           FeatureLeaderboardCache,
		Description:    "Cache leaderboard listings in Redis",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyWelcome] = &Feature{
		Name:           FeatureNotifyWelcome,
		Description:    "Welcome notification on registration",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyAchievement] = &Feature{
		Name:           FeatureNotifyAchievement,
		Description:    "Notify when an achievement is unlocked",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyLevelUp] = &Feature{
		Name:           FeatureNotifyLevelUp,
		Description:    "Notify when the user reaches a new level",
		Enabled:        true,
		RolloutPercent: 100,
	}
}

func (ff *FeatureFlags) apply(name, val string) error {
	feature, ok := ff.features[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFeatureNotFound, name)
	}

	val = strings.TrimSpace(val)
	if b, err := strconv.ParseBool(val); err == nil {
		feature.Enabled = b
		feature.RolloutPercent = 0
		if b {
			feature.RolloutPercent = 100
		}
		return nil
	}

	p, err := strconv.Atoi(strings.TrimSuffix(val, "%"))
	if err != nil || p < 0 || p > 100 {
		return fmt.Errorf("%w: %s=%q", ErrInvalidRolloutPercent, name, val)
	}
	feature.Enabled = p > 0
	feature.RolloutPercent = p
	return nil
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_RECOGNITION_REMOTE=25 (25% rollout)
// Invalid values are ignored.
func (ff *FeatureFlags) loadFromEnvironment() {
	for name := range ff.features {
		if val := os.Getenv(featureNameToEnvKey(name)); val != "" {
			_ = ff.apply(name, val)
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "recognition.remote" -> "FEATURE_RECOGNITION_REMOTE"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
// A nil context evaluates the feature globally.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	if ctx != nil && ctx.UserID != uuid.Nil {
		if overrides, ok := ff.userOverrides[ctx.UserID]; ok {
			if enabled, ok := overrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok || !feature.Enabled {
		return false
	}

	now := ff.now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	if len(feature.TargetSkillLevels) > 0 && ctx != nil && ctx.SkillLevel != "" {
		matched := false
		for _, lvl := range feature.TargetSkillLevels {
			if lvl == ctx.SkillLevel {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if feature.RolloutPercent < 100 && ctx != nil && ctx.UserID != uuid.Nil {
		return isInRollout(ctx.UserID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a user is in the rollout percentage.
func isInRollout(userID uuid.UUID, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write(userID[:])

	return int(h.Sum32()%100) < percent
}

// SetUserOverride sets a feature override for a specific user.
func (ff *FeatureFlags) SetUserOverride(userID uuid.UUID, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.userOverrides[userID]; !ok {
		ff.userOverrides[userID] = make(map[string]bool)
	}
	ff.userOverrides[userID][featureName] = enabled
}

// ClearUserOverrides removes all overrides for a user.
func (ff *FeatureFlags) ClearUserOverrides(userID uuid.UUID) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.userOverrides, userID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]Feature, len(ff.features))
	for k, v := range ff.features {
		result[k] = *v
	}
	return result
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
