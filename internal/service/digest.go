package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/expiry-notifier/internal/domain"
)

const (
	digestSeparator   = "\n--------------------\n"
	digestDateLayout  = "Jan 2, 2006"
	digestStampLayout = "Jan 2, 2006 15:04:05 MST"
	notApplicable     = "N/A"
)

// DigestFormatter renders notifications as one chat message.
type DigestFormatter struct {
	detailURLBase string
	location      *time.Location
}

func NewDigestFormatter(detailURLBase string, location *time.Location) DigestFormatter {
	if location == nil {
		location = time.UTC
	}
	return DigestFormatter{
		detailURLBase: strings.TrimRight(strings.TrimSpace(detailURLBase), "/"),
		location:      location,
	}
}

func (f DigestFormatter) Format(notifications []domain.Notification) string {
	blocks := make([]string, 0, len(notifications))
	for i := range notifications {
		blocks = append(blocks, f.block(&notifications[i]))
	}
	return strings.Join(blocks, digestSeparator)
}

func (f DigestFormatter) block(n *domain.Notification) string {
	message := strings.TrimSpace(n.Message)
	if message == "" {
		message = "No Message"
	}

	readStatus := "Not Read"
	if n.IsRead {
		readStatus = "Read"
	}
	readAt := notApplicable
	if n.ReadAt != nil {
		readAt = n.ReadAt.In(f.location).Format(digestStampLayout)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Notification: %s\n", message)
	// Expiry is a calendar date; it is stored at midnight UTC.
	fmt.Fprintf(&b, "Expiry: %s\n", n.ExpiryDate.UTC().Format(digestDateLayout))
	fmt.Fprintf(&b, "Created At: %s\n", n.CreatedAt.In(f.location).Format(digestStampLayout))
	fmt.Fprintf(&b, "Read Status: %s\n", readStatus)
	fmt.Fprintf(&b, "Read At: %s\n", readAt)
	fmt.Fprintf(&b, "For Details: <%s/%d|Click here>", f.detailURLBase, detailID(n))
	return b.String()
}

// detailID keys the deep link. The detail view is license based, so contract
// notifications fall back to the contract's own identifier.
func detailID(n *domain.Notification) uint64 {
	if n.LicenseID != nil {
		return *n.LicenseID
	}
	if n.ContractID != nil {
		return *n.ContractID
	}
	return n.EntityID
}
