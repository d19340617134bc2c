package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/kursadbilgin/expiry-notifier/internal/repository"
	"github.com/kursadbilgin/expiry-notifier/internal/testdb"
)

func TestEntityRepoListsLicensesAndContracts(t *testing.T) {
	t.Parallel()

	db := testdb.New(t)
	expiry := time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)

	licenses := []repository.LicenseModel{
		{Name: "Office 365", ExpiryDate: &expiry, IsActive: true},
		{Name: "Legacy CRM"},
	}
	if err := db.Create(&licenses).Error; err != nil {
		t.Fatalf("seed licenses: %v", err)
	}
	contracts := []repository.MaintenanceContractModel{
		{ContractType: "Support", EndDate: &expiry, LicenseID: &licenses[0].ID},
	}
	if err := db.Create(&contracts).Error; err != nil {
		t.Fatalf("seed contracts: %v", err)
	}

	repo := repository.NewGormEntityRepo(db)
	ctx := context.Background()

	gotLicenses, err := repo.ListLicenses(ctx)
	if err != nil {
		t.Fatalf("ListLicenses() error = %v", err)
	}
	if len(gotLicenses) != 2 {
		t.Fatalf("ListLicenses() = %d rows, want 2", len(gotLicenses))
	}
	if gotLicenses[0].Name != "Office 365" || gotLicenses[0].ExpiryDate == nil || !gotLicenses[0].ExpiryDate.Equal(expiry) {
		t.Fatalf("license[0] = %+v", gotLicenses[0])
	}
	if gotLicenses[1].ExpiryDate != nil {
		t.Fatalf("license[1] expiry = %v, want nil", gotLicenses[1].ExpiryDate)
	}

	gotContracts, err := repo.ListContracts(ctx)
	if err != nil {
		t.Fatalf("ListContracts() error = %v", err)
	}
	if len(gotContracts) != 1 {
		t.Fatalf("ListContracts() = %d rows, want 1", len(gotContracts))
	}
	if gotContracts[0].LicenseID == nil || *gotContracts[0].LicenseID != licenses[0].ID {
		t.Fatalf("contract license id = %v, want %d", gotContracts[0].LicenseID, licenses[0].ID)
	}
}
