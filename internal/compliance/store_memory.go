package compliance

import (
	"context"
	"sort"
	"sync"
	"time"

	"huntguard/internal/hunter"

	"github.com/google/uuid"
)

// MemoryStore - in-memory Store implementation used by the test suite and
// local tooling. Safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	shots      map[uuid.UUID]hunter.Shot
	guns       map[uuid.UUID]hunter.Gun
	hunters    map[uuid.UUID]hunter.Hunter
	purchases  map[uuid.UUID]AmmunitionPurchase
	zones      map[uuid.UUID]HuntingZone
	licenses   map[uuid.UUID]HunterLicense // keyed by hunter ID
	violations map[uuid.UUID]Violation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		shots:      make(map[uuid.UUID]hunter.Shot),
		guns:       make(map[uuid.UUID]hunter.Gun),
		hunters:    make(map[uuid.UUID]hunter.Hunter),
		purchases:  make(map[uuid.UUID]AmmunitionPurchase),
		zones:      make(map[uuid.UUID]HuntingZone),
		licenses:   make(map[uuid.UUID]HunterLicense),
		violations: make(map[uuid.UUID]Violation),
	}
}

// Seed helpers

func (m *MemoryStore) AddHunter(h hunter.Hunter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hunters[h.ID] = h
}

func (m *MemoryStore) AddGun(g hunter.Gun) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guns[g.ID] = g
}

func (m *MemoryStore) AddShot(s hunter.Shot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shots[s.ID] = s
}

func (m *MemoryStore) AddPurchase(p AmmunitionPurchase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purchases[p.ID] = p
}

func (m *MemoryStore) AddZone(z HuntingZone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[z.ID] = z
}

func (m *MemoryStore) AddLicense(l HunterLicense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.licenses[l.HunterID] = l
}

// Store implementation

func (m *MemoryStore) GetShot(ctx context.Context, id uuid.UUID) (*hunter.Shot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shots[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) GetGun(ctx context.Context, id uuid.UUID) (*hunter.Gun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.guns[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (m *MemoryStore) GetHunter(ctx context.Context, id uuid.UUID) (*hunter.Hunter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.hunters[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &h, nil
}

func (m *MemoryStore) CountShotsByHunter(ctx context.Context, hunterID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, s := range m.shots {
		gun, ok := m.guns[s.GunID]
		if ok && gun.OwnerID == hunterID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) SumPurchasedByHunter(ctx context.Context, hunterID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, p := range m.purchases {
		if p.HunterID == hunterID {
			total += int64(p.Quantity)
		}
	}
	return total, nil
}

func (m *MemoryStore) ListEnabledZones(ctx context.Context) ([]HuntingZone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var zones []HuntingZone
	for _, z := range m.zones {
		if z.IsActive {
			zones = append(zones, z)
		}
	}
	return zones, nil
}

func (m *MemoryStore) GetLicenseByHunter(ctx context.Context, hunterID uuid.UUID) (*HunterLicense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.licenses[hunterID]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (m *MemoryStore) CreateViolation(ctx context.Context, v *Violation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	m.violations[v.ID] = *v
	return nil
}

func (m *MemoryStore) GetViolation(ctx context.Context, id uuid.UUID) (*Violation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.violations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *MemoryStore) SaveResolution(ctx context.Context, v *Violation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.violations[v.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Resolved = v.Resolved
	stored.ResolvedAt = v.ResolvedAt
	stored.ResolvedBy = v.ResolvedBy
	stored.Notes = v.Notes
	m.violations[v.ID] = stored
	return nil
}

func (m *MemoryStore) ListViolations(ctx context.Context, filter ViolationFilter) ([]Violation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []Violation
	for _, v := range m.violations {
		if filter.HunterID != nil && v.HunterID != *filter.HunterID {
			continue
		}
		if filter.UnresolvedOnly && v.Resolved {
			continue
		}
		if filter.Since != nil && v.DetectedAt.Before(*filter.Since) {
			continue
		}
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DetectedAt.After(result[j].DetectedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *MemoryStore) GetViolationStats(ctx context.Context) (*ViolationStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &ViolationStats{
		ByType:     make(map[string]int64),
		BySeverity: make(map[string]int64),
	}
	for _, v := range m.violations {
		stats.ByType[v.Type]++
		stats.BySeverity[v.Severity]++
		stats.Total++
		if !v.Resolved {
			stats.Unresolved++
		}
	}
	return stats, nil
}

func (m *MemoryStore) ListExpiringLicenses(ctx context.Context, from, until time.Time) ([]HunterLicense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []HunterLicense
	for _, l := range m.licenses {
		if !l.ExpiryDate.Before(from) && !l.ExpiryDate.After(until) {
			result = append(result, l)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ExpiryDate.Before(result[j].ExpiryDate)
	})
	return result, nil
}

func (m *MemoryStore) GetLicenseStats(ctx context.Context, now time.Time) (*LicenseStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &LicenseStats{}
	soon := now.AddDate(0, 0, 30)
	for _, l := range m.licenses {
		stats.Total++
		if l.Valid(now) {
			stats.Valid++
		}
		if l.ExpiryDate.Before(now.Truncate(24 * time.Hour)) {
			stats.Expired++
		}
		if l.IsSuspended {
			stats.Suspended++
		}
		if !l.ExpiryDate.Before(now.Truncate(24*time.Hour)) && !l.ExpiryDate.After(soon) {
			stats.ExpiringSoon++
		}
	}
	return stats, nil
}

func (m *MemoryStore) GetUsageStats(ctx context.Context) (*UsageStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &UsageStats{}
	for _, p := range m.purchases {
		stats.TotalPurchased += int64(p.Quantity)
		stats.TotalUsed += int64(p.UsedQuantity)
		if p.UsedQuantity >= p.Quantity {
			stats.DepletedPurchases++
		}
	}
	stats.TotalRemaining = stats.TotalPurchased - stats.TotalUsed
	return stats, nil
}

func (m *MemoryStore) ListOverusedPurchases(ctx context.Context) ([]AmmunitionPurchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []AmmunitionPurchase
	for _, p := range m.purchases {
		if p.UsedQuantity > p.Quantity {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PurchaseDate.After(result[j].PurchaseDate)
	})
	return result, nil
}
