package domain

import "time"

// User is a registered account. Users are created at signup and never
// deleted.
type User struct {
	ID           string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(254);not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"not null;default:now()"`
}

// Group is a named category a post may optionally belong to.
type Group struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"type:varchar(200);not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(200);uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"not null;default:now()"`
}

// Post is an authored text entry, optionally with an image and a group.
// The author is fixed at creation; only text, image and group are editable.
type Post struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Image     string    `json:"image,omitempty" gorm:"type:varchar(255)"`
	AuthorID  string    `json:"authorId" gorm:"type:uuid;not null;index"`
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID"`
	GroupID   *string   `json:"groupId,omitempty" gorm:"type:uuid;index"`
	Group     *Group    `json:"-" gorm:"foreignKey:GroupID"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;default:now()"`
}

// Comment belongs to exactly one post. Post and author are fixed at
// creation; there is no edit or delete flow.
type Comment struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PostID    string    `json:"postId" gorm:"type:uuid;not null;index"`
	AuthorID  string    `json:"authorId" gorm:"type:uuid;not null"`
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;default:now()"`
}

// Follow is a directed edge: UserID follows AuthorID. The pair is unique
// and a user cannot follow themselves.
type Follow struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_author"`
	AuthorID  string    `json:"authorId" gorm:"type:uuid;not null;uniqueIndex:idx_user_author"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;default:now()"`
}
