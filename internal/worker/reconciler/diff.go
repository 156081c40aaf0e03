package reconciler

import (
	"github.com/carewave/appointment-service/internal/infra/cache/availability"
)

// DiscrepancyKind вид расхождения между кэшем и хранилищем
type DiscrepancyKind string

const (
	// MissingInCache слот есть в хранилище, но отсутствует в кэше
	MissingInCache DiscrepancyKind = "missing_in_cache"
	// UnexpectedInCache слот есть в кэше, но отсутствует в хранилище
	UnexpectedInCache DiscrepancyKind = "unexpected_in_cache"
)

// Discrepancy одно расхождение между кэшированным и персистентным набором слотов
type Discrepancy struct {
	Kind   DiscrepancyKind
	Record availability.SlotRecord
}

// diffRecords структурно сравнивает кэшированный и персистентный наборы слотов
// Сравнение идет по полному кортежу полей записи, порядок не важен
func diffRecords(cached, stored []availability.SlotRecord) []Discrepancy {
	cachedSet := make(map[availability.RecordKey]availability.SlotRecord, len(cached))
	for _, rec := range cached {
		cachedSet[rec.Key()] = rec
	}
	storedSet := make(map[availability.RecordKey]availability.SlotRecord, len(stored))
	for _, rec := range stored {
		storedSet[rec.Key()] = rec
	}

	var out []Discrepancy
	for key, rec := range storedSet {
		if _, ok := cachedSet[key]; !ok {
			out = append(out, Discrepancy{Kind: MissingInCache, Record: rec})
		}
	}
	for key, rec := range cachedSet {
		if _, ok := storedSet[key]; !ok {
			out = append(out, Discrepancy{Kind: UnexpectedInCache, Record: rec})
		}
	}
	return out
}
