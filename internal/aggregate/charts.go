package aggregate

import (
	"strconv"

	"ml100k/internal/render"
)

// Chart names double as image file stems.
const (
	ChartRatingDistribution = "rating_distribution"
	ChartItemMeans          = "item_mean_rating_distribution"
	ChartUserCounts         = "ratings_per_user_distribution"
	ChartItemCounts         = "ratings_per_item_distribution"
	ChartGender             = "users_by_gender"
	ChartOccupation         = "users_by_occupation"
)

// Charts converts r into chart series in a fixed order.
func (r *Reports) Charts() []render.Chart {
	dist := render.Chart{
		Name: ChartRatingDistribution, Title: "Rating distribution",
		XLabel: "Rating", YLabel: "Count", Kind: render.Bar,
	}
	for _, vc := range r.RatingDistribution {
		dist.Labels = append(dist.Labels, strconv.Itoa(vc.Value))
		dist.Values = append(dist.Values, float64(vc.Count))
	}

	means := render.Chart{
		Name: ChartItemMeans, Title: "Mean rating per movie",
		XLabel: "Mean rating", YLabel: "Movies", Kind: render.Histogram, Bins: 30,
	}
	for _, m := range r.ItemMeans {
		means.Samples = append(means.Samples, m.Mean)
	}

	return []render.Chart{
		dist,
		means,
		countHistogram(ChartUserCounts, "Ratings per user", "Users", r.UserCounts),
		countHistogram(ChartItemCounts, "Ratings per movie", "Movies", r.ItemCounts),
		frequencyBar(ChartGender, "Users by gender", "Gender", r.Genders, false),
		frequencyBar(ChartOccupation, "Users by occupation", "Occupation", r.Occupations, true),
	}
}

func countHistogram(name, title, ylabel string, counts []IDCount) render.Chart {
	c := render.Chart{Name: name, Title: title, XLabel: "Ratings", YLabel: ylabel, Kind: render.Histogram}
	for _, ic := range counts {
		c.Samples = append(c.Samples, float64(ic.Count))
	}
	return c
}

// frequencyBar keeps the table order. Horizontal bars draw bottom-up, so
// the order is reversed to put the most frequent label on top.
func frequencyBar(name, title, label string, rows []LabelCount, horizontal bool) render.Chart {
	c := render.Chart{Name: name, Title: title, Kind: render.Bar, Horizontal: horizontal}
	if horizontal {
		c.XLabel, c.YLabel = "Users", label
	} else {
		c.XLabel, c.YLabel = label, "Users"
	}
	for i := range rows {
		lc := rows[i]
		if horizontal {
			lc = rows[len(rows)-1-i]
		}
		c.Labels = append(c.Labels, lc.Label)
		c.Values = append(c.Values, float64(lc.Count))
	}
	return c
}
