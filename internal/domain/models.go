package domain

// RawRow is one spreadsheet row keyed by column header. Values are the raw
// cell strings; missing columns read as "".
type RawRow map[string]string

// Get returns the cell value for a column, or "" when the column is absent.
func (r RawRow) Get(col string) string {
	return r[col]
}

// DowntimeEvent is one normalized machine stoppage.
type DowntimeEvent struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	MachineID       string `json:"machineId"`
	Shift           string `json:"shift"`
	VisualShift     string `json:"visualShift"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	HAC             string `json:"hac"`
	HACDetail       string `json:"hacDetail"`
	Reason          string `json:"reason"`
	SAPCause        string `json:"sapCause"`
	DowntimeType    string `json:"downtimeType"`
}

// DowntimeGroup is a Pareto bucket: total stoppage per equipment and reason.
type DowntimeGroup struct {
	Equipment    string `json:"equipment"`
	Reason       string `json:"reason"`
	TotalMinutes int    `json:"totalMinutes"`
	Count        int    `json:"count"`
}

// DowntimeReport is the aggregate served by the downtime endpoint.
type DowntimeReport struct {
	Events       []DowntimeEvent `json:"events"`
	Pareto       []DowntimeGroup `json:"pareto"`
	TotalMinutes int             `json:"totalMinutes"`
}

// ShiftMetric holds the OEE breakdown for one machine+shift group.
type ShiftMetric struct {
	MachineID    string  `json:"machineId"`
	MachineName  string  `json:"machineName"`
	Shift        string  `json:"shift"`
	Availability float64 `json:"availability"`
	Performance  float64 `json:"performance"`
	Quality      float64 `json:"quality"`
	OEE          float64 `json:"oee"`
}

// ShiftTotal is bags produced per shift.
type ShiftTotal struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
}

// MachineTotal is bags and tonnage produced per machine.
type MachineTotal struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	ValueTn float64 `json:"valueTn"`
}

// MachineProductRow is the machine x material breakdown for stacked charts.
type MachineProductRow struct {
	Name     string             `json:"name"`
	Products map[string]float64 `json:"products"`
}

// ProductionStats is the aggregate served by the production endpoint.
type ProductionStats struct {
	TotalBags        float64             `json:"totalBags"`
	TotalTn          float64             `json:"totalTn"`
	ByShift          []ShiftTotal        `json:"byShift"`
	ByMachine        []MachineTotal      `json:"byMachine"`
	ByMachineProduct []MachineProductRow `json:"byMachineProduct"`
	Details          []ShiftMetric       `json:"details"`
}

// SectorBreakage is one of the four physical breakage sectors.
type SectorBreakage struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// ProviderBreakage sums produced/broken bags for one bag provider.
type ProviderBreakage struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Produced float64 `json:"produced"`
	Broken   float64 `json:"broken"`
	Rate     float64 `json:"rate"`
}

// MaterialBreakage sums produced/broken bags for one material, with the
// per-sector split flattened for stacked chart consumption.
type MaterialBreakage struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Produced             float64 `json:"produced"`
	Broken               float64 `json:"broken"`
	Rate                 float64 `json:"rate"`
	SectorEnsacadora     float64 `json:"sector_Ensacadora"`
	SectorNoEmboquillada float64 `json:"sector_NoEmboquillada"`
	SectorVentocheck     float64 `json:"sector_Ventocheck"`
	SectorTransporte     float64 `json:"sector_Transporte"`
}

// BreakageHistoryPoint is one calendar day on the breakage trend chart.
// Rates carries the per-provider breakage rate keyed by chart-safe series id.
type BreakageHistoryPoint struct {
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// BreakageStats is the aggregate served by the breakage endpoint.
type BreakageStats struct {
	TotalProduced float64                `json:"totalProduced"`
	TotalBroken   float64                `json:"totalBroken"`
	GlobalRate    float64                `json:"globalRate"`
	BySector      []SectorBreakage       `json:"bySector"`
	ByProvider    []ProviderBreakage     `json:"byProvider"`
	ByMaterial    []MaterialBreakage     `json:"byMaterial"`
	History       []BreakageHistoryPoint `json:"history"`
}

// StockItem is one counted product, tonnage already adjusted for night-shift
// production when the product is made in-house.
type StockItem struct {
	ID          string  `json:"id"`
	Product     string  `json:"product"`
	Quantity    float64 `json:"quantity"`
	Tonnage     float64 `json:"tonnage"`
	IsProduced  bool    `json:"isProduced"`
	Category    string  `json:"category"`
	LastUpdated string  `json:"lastUpdated"`
}

// StockReport is the aggregate served by the stocks endpoint.
type StockReport struct {
	Date  string      `json:"date"`
	Items []StockItem `json:"items"`
}

// AIAnalysisResult is the diagnostic shape produced by the AI layer or by the
// rule-based fallback. The two are indistinguishable except for the literal
// "[Respaldo]" insight prefix on fallback output.
type AIAnalysisResult struct {
	Insight         string   `json:"insight"`
	Recommendations []string `json:"recommendations"`
	Priority        string   `json:"priority"`
}

// Priority levels accepted in AIAnalysisResult.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)
