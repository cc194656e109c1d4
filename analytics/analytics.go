// Package analytics answers the admin question "how many likes were created
// per calendar day" over an inclusive date range.
package analytics

import (
	"encoding/json"
	"time"

	"github.com/Luismorlan/postmux/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DateLayout is the only accepted format for range boundaries.
const DateLayout = "2006-01-02"

type Analytics struct {
	db *gorm.DB
	// loc decides where the day boundary falls. The same conversion is
	// applied to the filter and to the grouping key, mixing zones here
	// would shift likes across days.
	loc *time.Location
}

func New(db *gorm.DB, loc *time.Location) *Analytics {
	return &Analytics{db: db, loc: loc}
}

// DayCount is one row of the aggregation result.
type DayCount struct {
	Day        time.Time `gorm:"column:day"`
	LikesCount int64     `gorm:"column:likes_count"`
}

// MarshalJSON renders the wire shape {"date": "YYYY-MM-DD", "likes_count": n}.
func (d DayCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date       string `json:"date"`
		LikesCount int64  `json:"likes_count"`
	}{
		Date:       d.Day.Format(DateLayout),
		LikesCount: d.LikesCount,
	})
}

// ParseDate parses a range boundary, rejecting anything but YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q, expect YYYY-MM-DD", s)
	}
	return t, nil
}

// LikesByDay counts likes grouped by the calendar date of their creation
// time, for dates within [from, to] inclusive. Days without likes are
// omitted. The result is sorted ascending by date.
func (a *Analytics) LikesByDay(from time.Time, to time.Time) ([]DayCount, error) {
	counts := []DayCount{}
	err := a.db.Model(&model.Like{}).
		Select("(created_at AT TIME ZONE ?)::date AS day, count(*) AS likes_count", a.loc.String()).
		Where("(created_at AT TIME ZONE ?)::date BETWEEN ?::date AND ?::date",
			a.loc.String(), from.Format(DateLayout), to.Format(DateLayout)).
		Group("day").
		Order("day ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to aggregate likes by day")
	}
	return counts, nil
}
