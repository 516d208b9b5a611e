// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"io"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
)

// LineExtractor turns free-form statement text into structured lines.
// Implemented by the Gemini SDK client and the HTTP agent client.
type LineExtractor interface {
	ExtractLines(ctx context.Context, text string) ([]domain.ExtractedLine, *domain.ExtractionUsage, error)
	// Source names the backend for logging and response metadata.
	Source() string
}

// SpreadsheetReader parses an uploaded statement file into ledger lines.
// The second return value names the detected format (xlsx, xls, csv).
type SpreadsheetReader interface {
	Read(filename string, file io.Reader) ([]domain.LineItem, string, error)
}

// ReportRenderer produces the PDF export of a comparison run.
type ReportRenderer interface {
	RenderComparison(ctx context.Context, result *domain.ComparisonResult) ([]byte, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	DeletePrefix(prefix string)
}

// SimulationStore persists named simulations per user.
// Implemented by the Supabase adapter (or any other persistence layer).
type SimulationStore interface {
	SaveSimulation(ctx context.Context, sim *domain.SavedSimulation) error
	ListSimulations(ctx context.Context, userID string, limit, offset int) ([]domain.SavedSimulation, error)
	GetSimulation(ctx context.Context, userID, simulationID string) (*domain.SavedSimulation, error)
	DeleteSimulation(ctx context.Context, userID, simulationID string) error
	CountSimulations(ctx context.Context, userID string) (int, error)
}

// PresetStore persists named rate configurations per user.
type PresetStore interface {
	SavePreset(ctx context.Context, preset *domain.RatePreset) error
	ListPresets(ctx context.Context, userID string) ([]domain.RatePreset, error)
	GetPreset(ctx context.Context, userID, presetID string) (*domain.RatePreset, error)
	DeletePreset(ctx context.Context, userID, presetID string) error
}

// AuthStore defines all data operations for the authentication system.
type AuthStore interface {
	// User lookup
	GetUserByID(ctx context.Context, userID string) (*domain.UserAccount, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.UserAccount, error)
	GetUserByCNPJ(ctx context.Context, cnpj string) (*domain.UserAccount, error)

	// Registration and credentials
	CreateUser(ctx context.Context, user *domain.UserAccount) error
	UpdateUser(ctx context.Context, userID string, updates map[string]any) error

	// Refresh tokens
	StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*domain.AuthRefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error

	// Password reset codes
	StoreResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error
	GetValidResetCode(ctx context.Context, userID, code string) (*domain.AuthPasswordResetCode, error)
	MarkResetCodeUsed(ctx context.Context, codeID string) error

	// Profile updates
	UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*domain.UserAccount, error)
}
