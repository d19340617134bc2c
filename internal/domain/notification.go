package domain

import (
	"fmt"
	"strings"
	"time"
)

// EntityType names the record family a notification concerns.
type EntityType string

const (
	EntityLicense  EntityType = "license"
	EntityContract EntityType = "contract"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityLicense, EntityContract:
		return true
	}
	return false
}

const dateLayout = "2006-01-02"

// Notification is an append-only expiry event for one license or contract.
// Exactly one of LicenseID and ContractID is set, matching EntityType.
type Notification struct {
	ID             uint64
	EntityType     EntityType
	EntityID       uint64
	LicenseID      *uint64
	ContractID     *uint64
	Classification Classification
	Message        string
	ExpiryDate     time.Time
	BucketDate     time.Time
	IsRead         bool
	ReadAt         *time.Time
	AdminUserID    *uint64
	CreatedAt      time.Time
}

func (n *Notification) Validate() error {
	if !n.EntityType.IsValid() {
		return fmt.Errorf("%w: invalid entity type %q", ErrValidation, n.EntityType)
	}
	if n.EntityID == 0 {
		return fmt.Errorf("%w: entity id is required", ErrValidation)
	}
	if !n.Classification.Reportable() {
		return fmt.Errorf("%w: classification %q is not reportable", ErrValidation, n.Classification)
	}
	if strings.TrimSpace(n.Message) == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}

	switch n.EntityType {
	case EntityLicense:
		if n.LicenseID == nil || *n.LicenseID != n.EntityID || n.ContractID != nil {
			return fmt.Errorf("%w: license notification must reference only license %d", ErrValidation, n.EntityID)
		}
	case EntityContract:
		if n.ContractID == nil || *n.ContractID != n.EntityID || n.LicenseID != nil {
			return fmt.Errorf("%w: contract notification must reference only contract %d", ErrValidation, n.EntityID)
		}
	}

	return nil
}

// FilterByClassification keeps the notifications in state c, preserving order.
func FilterByClassification(notifications []Notification, c Classification) []Notification {
	filtered := make([]Notification, 0, len(notifications))
	for _, n := range notifications {
		if n.Classification == c {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

// NewLicenseNotification returns the notification for a license in a
// reportable state, or false when the license needs none.
func NewLicenseNotification(reference time.Time, l License) (Notification, bool) {
	if l.ExpiryDate == nil {
		return Notification{}, false
	}

	class := Classify(reference, *l.ExpiryDate)
	if !class.Reportable() {
		return Notification{}, false
	}

	id := l.ID
	expiry := CivilDate(*l.ExpiryDate)
	return Notification{
		EntityType:     EntityLicense,
		EntityID:       l.ID,
		LicenseID:      &id,
		Classification: class,
		Message:        licenseMessage(l, class, expiry),
		ExpiryDate:     expiry,
		BucketDate:     CivilDate(reference),
	}, true
}

// NewContractNotification is the contract counterpart of NewLicenseNotification.
func NewContractNotification(reference time.Time, c MaintenanceContract) (Notification, bool) {
	if c.EndDate == nil {
		return Notification{}, false
	}

	class := Classify(reference, *c.EndDate)
	if !class.Reportable() {
		return Notification{}, false
	}

	id := c.ID
	end := CivilDate(*c.EndDate)
	return Notification{
		EntityType:     EntityContract,
		EntityID:       c.ID,
		ContractID:     &id,
		Classification: class,
		Message:        contractMessage(c, class, end),
		ExpiryDate:     end,
		BucketDate:     CivilDate(reference),
	}, true
}

func licenseMessage(l License, class Classification, expiry time.Time) string {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		name = fmt.Sprintf("#%d", l.ID)
	} else {
		name = fmt.Sprintf("%q", name)
	}

	if class == ClassificationExpired {
		return fmt.Sprintf("License %s expired on %s", name, expiry.Format(dateLayout))
	}
	return fmt.Sprintf("License %s expires on %s", name, expiry.Format(dateLayout))
}

func contractMessage(c MaintenanceContract, class Classification, end time.Time) string {
	label := fmt.Sprintf("Maintenance contract #%d", c.ID)
	if kind := strings.TrimSpace(c.ContractType); kind != "" {
		label = fmt.Sprintf("%s (%s)", label, kind)
	}

	if class == ClassificationExpired {
		return fmt.Sprintf("%s expired on %s", label, end.Format(dateLayout))
	}
	return fmt.Sprintf("%s ends on %s", label, end.Format(dateLayout))
}
