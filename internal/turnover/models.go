package turnover

import id "padoca/pkg/domain"

// Snapshot is the rolling turnover for a single client (or any pre-filtered
// event set).
type Snapshot struct {
	TotalDeliveries int `json:"total_entregas"`
	WeeklyTurnover  int `json:"giro_semanal"`
}

// FleetSnapshot is the fleet-wide turnover rollup exposed to reporting.
type FleetSnapshot struct {
	GiroSemanalTotal    int `json:"giro_semanal_total"`
	GiroMedioPorPDV     int `json:"giro_medio_por_pdv"`
	TotalEntregas       int `json:"total_entregas"`
	TotalClientesAtivos int `json:"total_clientes_ativos"`
}

// ProductTurnover is one product's share of the window, with its weekly mean
// for production planning.
type ProductTurnover struct {
	ProductID  id.ProductID `json:"product_id"`
	Total      int          `json:"total"`
	WeeklyMean int          `json:"media_semanal"`
}
