// Package domain defines the persistence models for the assistant store:
// visitors, users, conversation sessions, messages, the FAQ knowledge base,
// and widget/context configuration. These types are mapped with GORM and
// form the core data layer of the application.
package domain

import (
	"time"
)

// Message roles. Stored as plain strings and enforced by a DB check
// constraint on the messages table.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Visitor represents an anonymous browsing actor identified by a generated
// token. A visitor may own any number of sessions.
//
// Fields:
//   - ID: auto-increment surrogate key.
//   - VisitorID: stable public identifier (UUID string, unique).
//   - IPAddress / UserAgent / DeviceType / Browser: client fingerprint data.
//   - FirstVisit: set once at creation.
//   - LastVisit: touched on every resolution of the same VisitorID.
type Visitor struct {
	ID         uint      `json:"id"          gorm:"primaryKey;autoIncrement"`
	VisitorID  string    `json:"visitor_id"  gorm:"type:varchar(100);not null;uniqueIndex"`
	IPAddress  string    `json:"ip_address"  gorm:"type:varchar(50)"`
	UserAgent  string    `json:"user_agent"  gorm:"type:varchar(500)"`
	DeviceType string    `json:"device_type" gorm:"type:varchar(50)"`
	Browser    string    `json:"browser"     gorm:"type:varchar(100)"`
	FirstVisit time.Time `json:"first_visit"`
	LastVisit  time.Time `json:"last_visit"`
}

// TableName returns the database table name for Visitor.
func (Visitor) TableName() string { return "visitors" }

// User represents a registered actor. Username is mandatory and unique;
// email is optional but unique when present (NULLs do not collide).
type User struct {
	ID        uint      `json:"id"       gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"type:varchar(100);not null;uniqueIndex"`
	Email     *string   `json:"email,omitempty" gorm:"type:varchar(255);uniqueIndex"`
	Phone     *string   `json:"phone,omitempty" gorm:"type:varchar(50)"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Session represents one bounded conversation thread, optionally tied to a
// visitor and/or a user. Sessions own their messages: deleting a session
// removes its messages in the same transaction (see repo.DeleteSession).
//
// Invariant: EndedAt is set if and only if IsActive is false.
//
// Fields:
//   - ID: auto-increment surrogate key.
//   - VisitorID / UserID: weak back-references; deleting a session leaves
//     both owners intact, cascades only flow from owner to session.
//   - Token: opaque UUID handed to the client at creation (unique).
//   - Title / PageURL: presentation metadata.
//   - EndedAt / IsActive: lifecycle state, see invariant above.
//   - SatisfactionRating: optional 1..5 score recorded at close.
type Session struct {
	ID                 uint       `json:"id"       gorm:"primaryKey;autoIncrement"`
	VisitorID          *uint      `json:"visitor_id,omitempty" gorm:"index"`
	UserID             *uint      `json:"user_id,omitempty"    gorm:"index"`
	Token              string     `json:"token"    gorm:"type:char(36);not null;uniqueIndex"`
	Title              string     `json:"title"    gorm:"type:varchar(255)"`
	PageURL            string     `json:"page_url" gorm:"type:varchar(500)"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
	IsActive           bool       `json:"is_active" gorm:"not null"`
	SatisfactionRating *int       `json:"satisfaction_rating,omitempty"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }

// Message represents a single turn within a session. Messages are immutable
// once created. Retrieval order is Timestamp ascending with the
// auto-increment ID as the tie-break, so concurrent appends interleave
// deterministically.
type Message struct {
	ID         uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	SessionID  uint      `json:"session_id" gorm:"not null;index:idx_session_msgs,priority:1"`
	Role       string    `json:"role"       gorm:"type:varchar(50);not null;check:role IN ('user','assistant','system')"`
	Content    string    `json:"content"    gorm:"type:text;not null"`
	Timestamp  time.Time `json:"timestamp"  gorm:"index:idx_session_msgs,priority:2"`
	TokensUsed *int      `json:"tokens_used,omitempty"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// KnowledgeEntry is one FAQ record, optionally embedding-bearing. Entries
// with IsActive=false are excluded from every search path but remain
// readable by ID.
//
// Fields:
//   - Question / Answer: mandatory FAQ text.
//   - Category: optional grouping label used as a search filter.
//   - Keywords: optional free-form keyword string matched by lexical search
//     alongside Question.
//   - Priority: higher ranks first among lexical matches and breaks vector
//     score ties.
//   - ViewsCount / HelpfulCount: popularity counters, bumped atomically.
//   - Embedding: vector serialized into a dedicated TEXT column; nil when
//     semantic search is not enabled for the entry.
type KnowledgeEntry struct {
	ID           uint      `json:"id"            gorm:"primaryKey;autoIncrement"`
	Question     string    `json:"question"      gorm:"type:text;not null"`
	Answer       string    `json:"answer"        gorm:"type:text;not null"`
	Category     string    `json:"category"      gorm:"type:varchar(100);index"`
	Keywords     string    `json:"keywords"      gorm:"type:text"`
	Priority     int       `json:"priority"      gorm:"not null;default:0"`
	IsActive     bool      `json:"is_active"     gorm:"not null"`
	ViewsCount   int       `json:"views_count"   gorm:"not null;default:0"`
	HelpfulCount int       `json:"helpful_count" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Embedding    Vector    `json:"embedding,omitempty" gorm:"type:text"`
}

// TableName returns the database table name for KnowledgeEntry.
func (KnowledgeEntry) TableName() string { return "knowledge_base" }

// WidgetConfig is one named UI configuration for the chat widget. The row
// named "default" is created by the seeder; additional named variants may
// coexist. Upserts go through the settings service's field mask.
type WidgetConfig struct {
	ID              uint          `json:"id"               gorm:"primaryKey;autoIncrement"`
	Name            string        `json:"name"             gorm:"type:varchar(100);not null;uniqueIndex"`
	WelcomeMessage  string        `json:"welcome_message"  gorm:"type:text"`
	PlaceholderText string        `json:"placeholder_text" gorm:"type:varchar(255)"`
	BotName         string        `json:"bot_name"         gorm:"type:varchar(100)"`
	BotAvatarURL    string        `json:"bot_avatar_url"   gorm:"type:varchar(500)"`
	PrimaryColor    string        `json:"primary_color"    gorm:"type:varchar(20)"`
	Position        string        `json:"position"         gorm:"type:varchar(20)"`
	AutoOpenDelay   *int          `json:"auto_open_delay,omitempty"`
	OfflineMessage  string        `json:"offline_message"  gorm:"type:text"`
	IsActive        bool          `json:"is_active"        gorm:"not null"`
	BusinessHours   BusinessHours `json:"business_hours,omitempty" gorm:"type:text"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// TableName returns the database table name for WidgetConfig.
func (WidgetConfig) TableName() string { return "chat_widgets" }

// ContextEntry is a free-form key/value setting, used as a generic
// configuration escape hatch. Keys are unique; writes are upserts.
type ContextEntry struct {
	ID        uint      `json:"id"       gorm:"primaryKey;autoIncrement"`
	Key       string    `json:"key"      gorm:"type:varchar(255);not null;uniqueIndex"`
	Value     string    `json:"value"    gorm:"type:text"`
	Category  string    `json:"category" gorm:"type:varchar(100)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for ContextEntry.
func (ContextEntry) TableName() string { return "context_entries" }
