package services

import (
	"time"

	"github.com/agendaccp/agenda-ccp/pkg/db/dbtest"
)

const (
	ministryID = "ministry-1"
	anaCPF     = "11144477735"
	biaCPF     = "52998224725"
)

// testNow is the clock of the self-service tests
var testNow = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

func newMockStore() *dbtest.Store {
	store := dbtest.NewStore()
	store.DefaultMinistryID = ministryID
	return store
}

func date(s string) time.Time {
	return dbtest.Date(s)
}
