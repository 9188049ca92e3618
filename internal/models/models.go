package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Group struct {
	UID         string `gorm:"type:uuid;primaryKey" json:"uid"`
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`
	Users       []User `gorm:"many2many:user_groups" json:"-"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.UID == "" {
		g.UID = uuid.NewString()
	}
	return nil
}

type User struct {
	UID          string     `gorm:"type:uuid;primaryKey" json:"uid"`
	FirstName    string     `gorm:"size:50;not null" json:"first_name"`
	LastName     string     `gorm:"size:50;not null" json:"last_name"`
	Email        string     `gorm:"size:50;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Phone        string     `gorm:"size:20" json:"phone,omitempty"`
	IsActive     bool       `gorm:"not null;default:false" json:"is_active"`
	IsSuperuser  bool       `gorm:"not null;default:false" json:"is_superuser"`
	IsStaff      bool       `gorm:"not null;default:false" json:"is_staff"`
	DateJoined   time.Time  `json:"date_joined"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	Groups       []Group    `gorm:"many2many:user_groups" json:"groups"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UID == "" {
		u.UID = uuid.NewString()
	}
	return nil
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Session records one issued token pair plus best-effort request metadata.
type Session struct {
	UID          string    `gorm:"type:uuid;primaryKey" json:"uid"`
	UserUID      string    `gorm:"type:uuid;index;not null" json:"user_uid"`
	User         User      `gorm:"foreignKey:UserUID" json:"-"`
	AccessToken  string    `gorm:"size:500;uniqueIndex;not null" json:"access_token"`
	RefreshToken string    `gorm:"size:500;uniqueIndex;not null" json:"refresh_token"`
	City         string    `gorm:"size:50" json:"city,omitempty"`
	Region       string    `gorm:"size:50" json:"region,omitempty"`
	Country      string    `gorm:"size:50" json:"country,omitempty"`
	IPAddress    string    `gorm:"size:50" json:"ip_address,omitempty"`
	Timezone     string    `gorm:"size:50" json:"timezone,omitempty"`
	UserAgent    string    `gorm:"size:255" json:"user_agent,omitempty"`
	Loc          string    `gorm:"size:255" json:"loc,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.UID == "" {
		s.UID = uuid.NewString()
	}
	return nil
}

type Category struct {
	UID         string    `gorm:"type:uuid;primaryKey" json:"uid"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	Blogs       []Blog    `gorm:"foreignKey:CategoryUID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.UID == "" {
		c.UID = uuid.NewString()
	}
	return nil
}

type Tag struct {
	UID       string    `gorm:"type:uuid;primaryKey" json:"uid"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Blogs     []Blog    `gorm:"many2many:blog_tags" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.UID == "" {
		t.UID = uuid.NewString()
	}
	return nil
}

type Blog struct {
	UID           string    `gorm:"type:uuid;primaryKey" json:"uid"`
	Title         string    `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Body          string    `gorm:"size:5000;not null" json:"body"`
	Slug          string    `gorm:"size:255" json:"slug"`
	FeaturedImage string    `gorm:"size:255" json:"featured_image,omitempty"`
	TrendRank     int       `gorm:"not null;default:0" json:"trend_rank"`
	IsFeatured    bool      `gorm:"not null;default:false" json:"is_featured"`
	CategoryUID   string    `gorm:"type:uuid;index" json:"category_uid"`
	Category      Category  `gorm:"foreignKey:CategoryUID" json:"category"`
	UserUID       string    `gorm:"type:uuid;index" json:"user_uid"`
	User          User      `gorm:"foreignKey:UserUID" json:"-"`
	Tags          []Tag     `gorm:"many2many:blog_tags" json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate derives the slug from the title when none was supplied.
func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.UID == "" {
		b.UID = uuid.NewString()
	}
	if b.Slug == "" {
		b.Slug = Slugify(b.Title)
	}
	return nil
}

func Slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}
