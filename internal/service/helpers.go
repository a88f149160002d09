package service

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/noah-isme/company-site-api/internal/dto"
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func normalizePage(page int) int {
	return maxInt(page, 1)
}

func clampPageSize(size int) int {
	if size <= 0 {
		return 20
	}
	if size > 100 {
		return 100
	}
	return size
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

func paginationMeta(page, pageSize int, total int64) dto.PaginationMeta {
	return dto.PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: calculateTotalPages(total, pageSize),
	}
}

// generateSlug derives a URL slug from title with a short random suffix so
// concurrent creates with the same title do not collide.
func generateSlug(title, fallback string) string {
	base := normalizeSlug(title)
	if base == "" {
		base = fallback
	}
	return base + "-" + uuid.NewString()[:8]
}

// normalizeSlug transliterates to ASCII, so "Café Tile" becomes "cafe-tile".
func normalizeSlug(value string) string {
	return slug.Make(strings.TrimSpace(value))
}

func maskEmailAddress(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return "***"
	}
	local := parts[0]
	domain := parts[1]
	if len(local) <= 2 {
		local = local[:1] + "***"
	} else {
		local = local[:1] + "***" + local[len(local)-1:]
	}
	return local + "@" + domain
}

func boolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
