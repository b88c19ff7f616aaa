package service

import (
	"context"
	"math/rand/v2"

	"github.com/secureguard/phishsim-service/internal/domain"
)

// Scanner abstracts the security-tool checks so a real engine could replace
// the simulation without touching the HTTP layer.
type Scanner interface {
	ScanURL(ctx context.Context, url string) (*domain.URLScanResult, error)
	ScanFile(ctx context.Context, fileName string) (*domain.FileScanResult, error)
	SearchBreaches(ctx context.Context, email string) (*domain.BreachSearchResult, error)
	MonitorDarkWeb(ctx context.Context, domainName string) (*domain.DarkWebResult, error)
}

// simulatedScanner produces randomized demo results. It performs no real
// analysis and exists purely for awareness-training demos.
type simulatedScanner struct{}

// NewSimulatedScanner returns the stub scanner implementation.
func NewSimulatedScanner() Scanner {
	return &simulatedScanner{}
}

func (s *simulatedScanner) ScanURL(_ context.Context, url string) (*domain.URLScanResult, error) {
	return &domain.URLScanResult{
		URL:       url,
		Safe:      rand.Float64() > 0.3,
		RiskScore: rand.IntN(100),
		DomainAge: rand.IntN(3650),
		Threats: []string{
			"Domain reputation check: Passed",
			"SSL certificate validation: Valid",
			"Blacklist check: Not found",
			"Phishing detection: No threats detected",
		},
	}, nil
}

func (s *simulatedScanner) ScanFile(_ context.Context, fileName string) (*domain.FileScanResult, error) {
	return &domain.FileScanResult{
		FileName:   fileName,
		Clean:      rand.Float64() > 0.2,
		Detections: rand.IntN(5),
		Details: []string{
			"Signature analysis: Complete",
			"Behavioral analysis: No suspicious activity",
			"Heuristic scan: Passed",
			"Sandbox execution: Safe",
		},
	}, nil
}

func (s *simulatedScanner) SearchBreaches(_ context.Context, email string) (*domain.BreachSearchResult, error) {
	breached := rand.Float64() > 0.5
	result := &domain.BreachSearchResult{
		Email:           email,
		Breached:        breached,
		CompromisedData: []string{},
		Breaches:        []domain.BreachRecord{},
	}
	if breached {
		result.BreachCount = rand.IntN(5) + 1
		result.LastBreach = "2023-08-15"
		result.CompromisedData = []string{"Email", "Password", "Username", "IP Address"}
		result.Breaches = []domain.BreachRecord{
			{Name: "DataCorp Breach", Date: "2023-08-15", Records: "50M"},
			{Name: "TechHub Leak", Date: "2023-05-20", Records: "12M"},
		}
	}
	return result, nil
}

func (s *simulatedScanner) MonitorDarkWeb(_ context.Context, domainName string) (*domain.DarkWebResult, error) {
	found := rand.Float64() > 0.7
	result := &domain.DarkWebResult{
		Domain:         domainName,
		Found:          found,
		SourcesScanned: 247,
		Findings:       []domain.DarkWebFinding{},
	}
	if found {
		result.AlertCount = rand.IntN(3) + 1
		result.Findings = []domain.DarkWebFinding{
			{Type: "Credentials", Description: "Email and password found in paste", Date: "2024-01-10"},
			{Type: "Database Dump", Description: "User records in leaked database", Date: "2023-12-05"},
		}
	}
	return result, nil
}
