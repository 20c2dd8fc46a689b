// File: internal/profile/model.go
package profile

import "time"

// RoleUser is the role every self-registered account receives.
const RoleUser = "usuario"

// Profile is the per-user document written once, on first registration.
// Credentials are never part of it; they live only with the identity provider.
type Profile struct {
	UID       string    `json:"uid" firestore:"-" gorm:"column:uid;type:varchar(128);primaryKey"`
	Email     string    `json:"email" firestore:"email" gorm:"type:varchar(255);not null;index"`
	Role      string    `json:"role" firestore:"role" gorm:"type:varchar(50);not null;default:'usuario'"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at" gorm:"not null"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "users"
}

// NewProfile builds the profile for a freshly created account.
func NewProfile(uid, email string, now time.Time) *Profile {
	return &Profile{
		UID:       uid,
		Email:     email,
		Role:      RoleUser,
		CreatedAt: now.UTC(),
	}
}

// Orphan is an identity account whose profile write failed and whose compensating delete also failed.
type Orphan struct {
	UID        string    `json:"uid" firestore:"-" gorm:"column:uid;type:varchar(128);primaryKey"`
	Email      string    `json:"email" firestore:"email" gorm:"type:varchar(255)"`
	Reason     string    `json:"reason" firestore:"reason" gorm:"type:text"`
	RecordedAt time.Time `json:"recorded_at" firestore:"recorded_at" gorm:"not null;index"`
	Attempts   int       `json:"attempts" firestore:"attempts" gorm:"not null;default:0"`
	LastError  string    `json:"last_error,omitempty" firestore:"last_error,omitempty" gorm:"type:text"`
}

// TableName specifies the table name for the Orphan model.
func (Orphan) TableName() string {
	return "orphaned_accounts"
}
