package repository

import "time"

const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on-hold"
)

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusExpired  = "expired"
)

type User struct {
	ID                       string `gorm:"type:uuid;primaryKey" json:"id"`
	Name                     string `gorm:"not null" json:"name"`
	Email                    string `gorm:"uniqueIndex;not null" json:"email"`
	Password                 string `gorm:"not null" json:"-"`
	Avatar                   string `json:"avatar,omitempty"`
	IsEmailVerified          bool   `json:"isEmailVerified"`
	EmailVerificationToken   *string    `gorm:"index" json:"-"`
	EmailVerificationExpires *time.Time `json:"-"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
}

type Project struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	OwnerID     string    `gorm:"type:uuid;index;not null" json:"ownerId"`
	Owner       User      `gorm:"foreignKey:OwnerID" json:"owner"`
	Members     []User    `gorm:"many2many:project_members" json:"members"`
	Status      string    `gorm:"default:active" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Task struct {
	ID             string     `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `json:"description"`
	ProjectID      string     `gorm:"type:uuid;index;not null" json:"projectId"`
	AssignedToID   *string    `gorm:"type:uuid" json:"assignedToId,omitempty"`
	AssignedTo     *User      `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	CreatedByID    string     `gorm:"type:uuid;not null" json:"createdById"`
	CreatedBy      User       `gorm:"foreignKey:CreatedByID" json:"createdBy"`
	Status         string     `gorm:"default:todo" json:"status"`
	Priority       string     `gorm:"default:medium" json:"priority"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty"`
	ActualHours    *float64   `json:"actualHours,omitempty"`
	Tags           []string   `gorm:"serializer:json" json:"tags"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type Invitation struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"index;not null" json:"email"`
	ProjectID   string    `gorm:"type:uuid;index;not null" json:"projectId"`
	Project     Project   `gorm:"foreignKey:ProjectID" json:"project"`
	InvitedByID string    `gorm:"type:uuid;not null" json:"invitedById"`
	InvitedBy   User      `gorm:"foreignKey:InvitedByID" json:"invitedBy"`
	Token       string    `gorm:"uniqueIndex;not null" json:"-"`
	Status      string    `gorm:"default:pending" json:"status"`
	ExpiresAt   time.Time `gorm:"index" json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaybackRecord is the persisted "which video, in what state" for a
// project. The unique index on ProjectID enforces at most one record per
// project; PutPlayback relies on it for its atomic upsert.
type PlaybackRecord struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   string    `gorm:"type:uuid;uniqueIndex;not null" json:"projectId"`
	VideoURL    string    `gorm:"not null" json:"videoUrl"`
	VideoID     string    `gorm:"not null" json:"videoId"`
	Title       string    `json:"title,omitempty"`
	IsPlaying   bool      `json:"isPlaying"`
	CurrentTime float64   `json:"currentTime"`
	IsMinimized bool      `json:"isMinimized"`
	AddedByID   string    `gorm:"type:uuid;not null" json:"addedById"`
	AddedBy     User      `gorm:"foreignKey:AddedByID" json:"addedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
