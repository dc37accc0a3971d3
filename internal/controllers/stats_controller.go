package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minimav/running-app/internal/store"
)

// Runs lists every traversal row in the date range joined with the date of
// its run. Both bounds are optional and inclusive; no bounds means all runs
// ever.
func Runs(c *gin.Context) {
	area, ok := activeArea(c)
	if !ok {
		return
	}
	rows, err := db.TraversalsByDate(area.Username, area.AreaName,
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// animationFrame is one date's traversals plus how many days to hold the
// frame before the next one plays.
type animationFrame struct {
	Date     string                 `json:"date"`
	DiffDays int                    `json:"diff_days"`
	Run      []store.DatedTraversal `json:"run"`
}

// diffInDays counts whole days between two YYYY-MM-DD dates.
func diffInDays(startDate, endDate string) int {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

// groupRunsByDate folds date-ordered traversal rows into animation frames.
// The last frame waits zero days since nothing follows it.
func groupRunsByDate(rows []store.DatedTraversal) []animationFrame {
	frames := make([]animationFrame, 0)
	for _, row := range rows {
		if n := len(frames); n > 0 && frames[n-1].Date == row.Date {
			frames[n-1].Run = append(frames[n-1].Run, row)
			continue
		}
		frames = append(frames, animationFrame{Date: row.Date, Run: []store.DatedTraversal{row}})
	}
	for i := 0; i+1 < len(frames); i++ {
		frames[i].DiffDays = diffInDays(frames[i].Date, frames[i+1].Date)
	}
	return frames
}

// RunsForAnimation groups the range's traversals by date, in time order,
// ready to play back on the map.
func RunsForAnimation(c *gin.Context) {
	area, ok := activeArea(c)
	if !ok {
		return
	}
	rows, err := db.TraversalsByDate(area.Username, area.AreaName,
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, groupRunsByDate(rows))
}

// FirstSeen maps each date in the range to the segments first covered on it.
func FirstSeen(c *gin.Context) {
	area, ok := activeArea(c)
	if !ok {
		return
	}
	firsts, err := db.FirstTraversals(area.Username, area.AreaName,
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	byDate := make(map[string][]string)
	for _, f := range firsts {
		byDate[f.Date] = append(byDate[f.Date], f.SegmentID)
	}
	c.JSON(http.StatusOK, byDate)
}

// Traversals sums traversal counts per segment over the date range.
func Traversals(c *gin.Context) {
	area, ok := activeArea(c)
	if !ok {
		return
	}
	totals, err := db.TraversalTotals(area.Username, area.AreaName,
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, totals)
}

// RunLinestrings lists the stored run geometries in the date range. Runs
// logged without a geometry are skipped.
func RunLinestrings(c *gin.Context) {
	area, ok := activeArea(c)
	if !ok {
		return
	}
	rows, err := db.RunLinestrings(area.Username, area.AreaName,
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}
