package domain

import "time"

// LinkStatus es el estado de un MarketLink persistido.
type LinkStatus string

const (
	LinkSuggested LinkStatus = "suggested"
	LinkConfirmed LinkStatus = "confirmed"
	LinkRejected  LinkStatus = "rejected"
)

// MarketLink vincula dos listings equivalentes entre venues. Es la única
// entidad del core con persistencia cross-run (junto a la watchlist):
// el repositorio la upserta, el core la relee fresca en cada ciclo.
type MarketLink struct {
	ID          string
	Left        MarketRef
	Right       MarketRef
	Topic       Topic
	Status      LinkStatus
	Score       float64
	Reason      string
	AlgoVersion string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastSeen    time.Time
}

// Age devuelve la antigüedad del link respecto a now.
func (l MarketLink) Age(now time.Time) time.Duration {
	return now.Sub(l.CreatedAt)
}

// PairKey devuelve la clave única del par, estable ante re-runs.
func (l MarketLink) PairKey() string {
	return l.Left.String() + "~" + l.Right.String()
}
