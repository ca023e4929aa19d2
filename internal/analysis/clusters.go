package analysis

import (
	"sort"

	"tradelens/internal/normalize"
	"tradelens/internal/table"
)

// AnalysisType selects a cluster-oriented report.
type AnalysisType string

const (
	ClusterSummary    AnalysisType = "cluster_summary"
	TopClusters       AnalysisType = "top_clusters"
	ClusterByCategory AnalysisType = "cluster_by_category"
	DetailedBreakdown AnalysisType = "detailed_breakdown"
)

// topClusterLimit caps the top-clusters report.
const topClusterLimit = 10

// ClusterRequest parameterizes a cluster analysis.
type ClusterRequest struct {
	ClusterCol string
	Type       AnalysisType
	TargetCol  string   // optional numeric column for sums/averages
	GroupByCol string   // secondary category for cross-tab / breakdown
	Selected   []string // optional pre-filter to these cluster keys
}

// ClusterAnalysis runs one report over clustered data. It returns either the
// result table with a success message, or nil with a human-readable error
// message — errors never raise past this boundary.
func ClusterAnalysis(t *table.Table, req ClusterRequest) (*table.Table, string) {
	if !t.HasColumn(req.ClusterCol) {
		return nil, "Cluster column not found"
	}

	filtered := t
	if len(req.Selected) > 0 {
		want := make(map[string]bool, len(req.Selected))
		for _, s := range req.Selected {
			want[s] = true
		}
		idx := t.ColumnIndex(req.ClusterCol)
		filtered = t.Select(func(r int) bool { return want[t.Rows[r][idx].String()] })
	}
	if filtered.Len() == 0 {
		return nil, "No data found for selected clusters"
	}

	switch req.Type {
	case ClusterSummary:
		return clusterSummary(filtered, req)
	case TopClusters:
		return topClusters(filtered, req)
	case ClusterByCategory:
		return clusterByCategory(filtered, req)
	case DetailedBreakdown:
		return detailedBreakdown(filtered, req)
	}
	return nil, "Unknown analysis type"
}

// clusterStats accumulates per-cluster rows and target values.
type clusterStats struct {
	count  int
	values []float64
}

// collectClusters tallies rows per cluster key, optionally gathering target
// values coerced to floats. Keys come back sorted.
func collectClusters(t *table.Table, clusterCol, targetCol string) (map[string]*clusterStats, []string) {
	clusterIdx := t.ColumnIndex(clusterCol)
	targetIdx := -1
	if targetCol != "" {
		targetIdx = t.ColumnIndex(targetCol)
	}

	stats := make(map[string]*clusterStats)
	for _, row := range t.Rows {
		key := row[clusterIdx].String()
		s, ok := stats[key]
		if !ok {
			s = &clusterStats{}
			stats[key] = s
		}
		s.count++
		if targetIdx >= 0 {
			s.values = append(s.values, normalize.CoerceFloat(row[targetIdx]))
		}
	}

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return stats, keys
}

func clusterSummary(t *table.Table, req ClusterRequest) (*table.Table, string) {
	withTarget := req.TargetCol != "" && t.HasColumn(req.TargetCol)
	target := ""
	if withTarget {
		target = req.TargetCol
	}
	stats, keys := collectClusters(t, req.ClusterCol, target)

	cols := []string{req.ClusterCol, "Total_Records"}
	if withTarget {
		cols = append(cols,
			req.TargetCol+"_Total",
			req.TargetCol+"_Average",
			req.TargetCol+"_Count")
	}

	out := table.New(cols...)
	for _, key := range keys {
		s := stats[key]
		cells := []table.Cell{table.Text(key), table.Number(float64(s.count))}
		if withTarget {
			cells = append(cells,
				table.Number(round2(sum(s.values))),
				table.Number(round2(mean(s.values))),
				table.Number(float64(len(s.values))))
		}
		out.AppendRow(cells...)
	}
	return out, "Analysis completed successfully"
}

func topClusters(t *table.Table, req ClusterRequest) (*table.Table, string) {
	if req.TargetCol == "" || !t.HasColumn(req.TargetCol) {
		return nil, "Target column required for top clusters analysis"
	}
	stats, keys := collectClusters(t, req.ClusterCol, req.TargetCol)

	type entry struct {
		key   string
		total float64
	}
	entries := make([]entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, entry{key, sum(stats[key].values)})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].total > entries[j].total })
	if len(entries) > topClusterLimit {
		entries = entries[:topClusterLimit]
	}

	out := table.New(req.ClusterCol, "Total_"+req.TargetCol)
	for _, e := range entries {
		out.AppendRow(table.Text(e.key), table.Number(e.total))
	}
	return out, "Top clusters analysis completed"
}

func clusterByCategory(t *table.Table, req ClusterRequest) (*table.Table, string) {
	if req.GroupByCol == "" || !t.HasColumn(req.GroupByCol) {
		return nil, "Group by column required for categorical analysis"
	}
	withTarget := req.TargetCol != "" && t.HasColumn(req.TargetCol)

	clusterIdx := t.ColumnIndex(req.ClusterCol)
	catIdx := t.ColumnIndex(req.GroupByCol)
	targetIdx := -1
	if withTarget {
		targetIdx = t.ColumnIndex(req.TargetCol)
	}

	cells := make(map[string]map[string]float64)
	catSet := make(map[string]struct{})
	for _, row := range t.Rows {
		cluster := row[clusterIdx].String()
		cat := row[catIdx].String()
		catSet[cat] = struct{}{}
		if cells[cluster] == nil {
			cells[cluster] = make(map[string]float64)
		}
		if withTarget {
			cells[cluster][cat] += normalize.CoerceFloat(row[targetIdx])
		} else {
			cells[cluster][cat]++
		}
	}

	clusters := make([]string, 0, len(cells))
	for k := range cells {
		clusters = append(clusters, k)
	}
	sort.Strings(clusters)
	cats := make([]string, 0, len(catSet))
	for c := range catSet {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	// Pivot wide, missing combinations filled with 0.
	out := table.New(append([]string{req.ClusterCol}, cats...)...)
	for _, cluster := range clusters {
		row := []table.Cell{table.Text(cluster)}
		for _, cat := range cats {
			row = append(row, table.Number(cells[cluster][cat]))
		}
		out.AppendRow(row...)
	}
	return out, "Categorical analysis completed"
}

func detailedBreakdown(t *table.Table, req ClusterRequest) (*table.Table, string) {
	if req.GroupByCol == "" || !t.HasColumn(req.GroupByCol) {
		return nil, "Group by column required for detailed breakdown"
	}
	withTarget := req.TargetCol != "" && t.HasColumn(req.TargetCol)

	clusterIdx := t.ColumnIndex(req.ClusterCol)
	clusters := t.UniqueStrings(req.ClusterCol)

	cols := []string{req.GroupByCol, "Record_Count"}
	if withTarget {
		cols = append(cols, "Total_"+req.TargetCol)
	}
	cols = append(cols, "Cluster")
	out := table.New(cols...)

	for _, cluster := range clusters {
		sub := t.Select(func(r int) bool { return t.Rows[r][clusterIdx].String() == cluster })
		target := ""
		if withTarget {
			target = req.TargetCol
		}
		stats, cats := collectClusters(sub, req.GroupByCol, target)
		for _, cat := range cats {
			s := stats[cat]
			cells := []table.Cell{table.Text(cat), table.Number(float64(s.count))}
			if withTarget {
				cells = append(cells, table.Number(sum(s.values)))
			}
			cells = append(cells, table.Text(cluster))
			out.AppendRow(cells...)
		}
	}
	if out.Len() == 0 {
		return nil, "No data to analyze"
	}
	return out, "Detailed breakdown completed"
}
