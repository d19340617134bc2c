package domain

import "time"

// License is the read-only view of a license row needed for expiry tracking.
type License struct {
	ID         uint64
	Name       string
	ExpiryDate *time.Time
	IsActive   bool
}

// MaintenanceContract is the read-only view of a maintenance contract row.
type MaintenanceContract struct {
	ID           uint64
	ContractType string
	EndDate      *time.Time
	LicenseID    *uint64
}

// Summary holds dashboard counts. It is never persisted.
type Summary struct {
	TotalLicenses         int64 `json:"total_licenses"`
	ActiveLicenses        int64 `json:"active_licenses"`
	ExpiredLicenses       int64 `json:"expired_licenses"`
	ExpiringSoonLicenses  int64 `json:"expiring_soon_licenses"`
	TotalContracts        int64 `json:"total_contracts"`
	ExpiringSoonContracts int64 `json:"expiring_soon_contracts"`
	ExpiredContracts      int64 `json:"expired_contracts"`
}

// Summarize tallies licenses and contracts against a single reference date.
func Summarize(reference time.Time, licenses []License, contracts []MaintenanceContract) Summary {
	var s Summary

	s.TotalLicenses = int64(len(licenses))
	for _, l := range licenses {
		if l.IsActive {
			s.ActiveLicenses++
		}
		if l.ExpiryDate == nil {
			continue
		}
		switch Classify(reference, *l.ExpiryDate) {
		case ClassificationExpired:
			s.ExpiredLicenses++
		case ClassificationExpiringSoon:
			s.ExpiringSoonLicenses++
		}
	}

	s.TotalContracts = int64(len(contracts))
	for _, c := range contracts {
		if c.EndDate == nil {
			continue
		}
		switch Classify(reference, *c.EndDate) {
		case ClassificationExpired:
			s.ExpiredContracts++
		case ClassificationExpiringSoon:
			s.ExpiringSoonContracts++
		}
	}

	return s
}

// ActivityEntry is one row of the recent-activity audit trail.
type ActivityEntry struct {
	ID            uint64
	AdminUserID   uint64
	ActionTitle   string
	Description   string
	TableAffected string
	AffectedID    uint64
	CreatedAt     time.Time
}
