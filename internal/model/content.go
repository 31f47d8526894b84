package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AlumniRecord is the lightweight entry created by bulk CSV import. Unlike a
// User it has no credentials; it exists so the directory can list alumni who
// never registered.
type AlumniRecord struct {
	bun.BaseModel `bun:"table:alumni_records,alias:alr"`

	ID     uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name   string    `bun:"name,notnull" json:"name"`
	RollNo string    `bun:"roll_no,notnull,unique" json:"roll_no"`
	Batch  int       `bun:"batch,notnull" json:"batch"`
	Branch string    `bun:"branch,notnull" json:"branch"`
}

type News struct {
	bun.BaseModel `bun:"table:news,alias:nws"`

	ID       uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title    string     `bun:"title,notnull" json:"title"`
	Content  string     `bun:"content,notnull" json:"content"`
	ImageURL string     `bun:"image_url" json:"imageUrl,omitempty"`
	PostedAt *time.Time `bun:"posted_at,nullzero,default:current_timestamp" json:"date,omitempty"`
}

type Event struct {
	bun.BaseModel `bun:"table:events,alias:evt"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title     string     `bun:"title,notnull" json:"title"`
	Content   string     `bun:"content,notnull" json:"content"`
	Organizer string     `bun:"organizer" json:"organizer,omitempty"`
	EventDate string     `bun:"event_date" json:"event_date,omitempty"`
	EventTime string     `bun:"event_time" json:"event_time,omitempty"`
	ImageURL  string     `bun:"image_url" json:"imageUrl,omitempty"`
	PostedAt  *time.Time `bun:"posted_at,nullzero,default:current_timestamp" json:"posted_date,omitempty"`
}

type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AuthorID  uuid.UUID  `bun:"author_id,type:uuid" json:"author_id,omitempty"`
	Title     string     `bun:"title,notnull" json:"title"`
	Content   string     `bun:"content,notnull" json:"content"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Photo is a gallery entry; the URL points at the media store.
type Photo struct {
	bun.BaseModel `bun:"table:photos,alias:pht"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	URL       string     `bun:"url,notnull" json:"url"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

type Feedback struct {
	bun.BaseModel `bun:"table:feedback,alias:fbk"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name      string     `bun:"name,notnull" json:"name"`
	Email     string     `bun:"email,notnull" json:"email"`
	Message   string     `bun:"message,notnull" json:"message"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
