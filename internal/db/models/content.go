package models

import "time"

// HomeSection is one editable block of the home page, addressed by Key.
type HomeSection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"unique;size:100;not null" json:"key" validate:"required,max=100"`
	Title     string    `gorm:"size:255" json:"title" validate:"max=255"`
	Body      string    `gorm:"type:text" json:"body"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Service is an offering listed on the services page.
type Service struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Slug      string    `gorm:"unique;size:150;not null" json:"slug" validate:"required,max=150"`
	Summary   string    `gorm:"size:500" json:"summary" validate:"max=500"`
	Body      string    `gorm:"type:text" json:"body"`
	Icon      string    `gorm:"size:100" json:"icon" validate:"max=100"`
	Position  int       `json:"position"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Project is a case study of work done for a client.
type Project struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Slug        string     `gorm:"unique;size:150;not null" json:"slug" validate:"required,max=150"`
	Client      string     `gorm:"size:255" json:"client" validate:"max=255"`
	Summary     string     `gorm:"size:500" json:"summary" validate:"max=500"`
	Body        string     `gorm:"type:text" json:"body"`
	ImageURL    string     `gorm:"size:500" json:"imageUrl" validate:"omitempty,url"`
	Published   bool       `json:"published"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BlogPost is an article of the blog.
type BlogPost struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Slug        string     `gorm:"unique;size:150;not null" json:"slug" validate:"required,max=150"`
	Excerpt     string     `gorm:"size:500" json:"excerpt" validate:"max=500"`
	Body        string     `gorm:"type:text" json:"body"`
	Author      string     `gorm:"size:200" json:"author" validate:"max=200"`
	CoverURL    string     `gorm:"size:500" json:"coverUrl" validate:"omitempty,url"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TeamMember is a person shown on the team page.
type TeamMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name" validate:"required,max=200"`
	Position    string    `gorm:"size:200" json:"position" validate:"max=200"`
	Bio         string    `gorm:"type:text" json:"bio"`
	PhotoURL    string    `gorm:"size:500" json:"photoUrl" validate:"omitempty,url"`
	LinkedinURL string    `gorm:"size:500" json:"linkedinUrl" validate:"omitempty,url"`
	Order       int       `gorm:"column:sort_order" json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// JobOpening is a position advertised on the recruitment page.
type JobOpening struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Slug        string     `gorm:"unique;size:150;not null" json:"slug" validate:"required,max=150"`
	Department  string     `gorm:"size:200" json:"department" validate:"max=200"`
	Description string     `gorm:"type:text" json:"description"`
	Open        bool       `json:"open"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Policy is a legal page such as the privacy or cookie policy.
type Policy struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"unique;size:100;not null" json:"slug" validate:"required,max=100"`
	Title     string    `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name" validate:"required,max=200"`
	Email     string    `gorm:"size:255;not null" json:"email" validate:"required,email"`
	Subject   string    `gorm:"size:255" json:"subject" validate:"max=255"`
	Message   string    `gorm:"type:text;not null" json:"message" validate:"required,max=5000"`
	Read      bool      `gorm:"column:is_read" json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
