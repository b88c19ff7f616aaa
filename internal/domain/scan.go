package domain

// URLScanResult mirrors the simulated URL reputation check.
type URLScanResult struct {
	URL       string   `json:"url"`
	Safe      bool     `json:"safe"`
	RiskScore int      `json:"risk_score"`
	DomainAge int      `json:"domain_age_days"`
	Threats   []string `json:"threats"`
}

// FileScanResult mirrors the simulated file analysis.
type FileScanResult struct {
	FileName   string   `json:"file_name"`
	Clean      bool     `json:"clean"`
	Detections int      `json:"detections"`
	Details    []string `json:"details"`
}

// BreachRecord is one entry in a simulated breach report.
type BreachRecord struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Records string `json:"records"`
}

// BreachSearchResult mirrors the simulated credential-breach lookup.
type BreachSearchResult struct {
	Email           string         `json:"email"`
	Breached        bool           `json:"breached"`
	BreachCount     int            `json:"breach_count"`
	LastBreach      string         `json:"last_breach,omitempty"`
	CompromisedData []string       `json:"compromised_data"`
	Breaches        []BreachRecord `json:"breaches"`
}

// DarkWebFinding is one entry in a simulated dark-web report.
type DarkWebFinding struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// DarkWebResult mirrors the simulated dark-web monitor.
type DarkWebResult struct {
	Domain         string           `json:"domain"`
	Found          bool             `json:"found"`
	SourcesScanned int              `json:"sources_scanned"`
	AlertCount     int              `json:"alert_count"`
	Findings       []DarkWebFinding `json:"findings"`
}
