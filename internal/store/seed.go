package store

import (
	"context"

	log "github.com/sirupsen/logrus"

	"cotiza/internal/types"
)

// seedLocked loads the demo fixture set: three clients and three
// quotations, one approved, one pending, one draft. Only called when both
// collections are empty, and the caller persists afterwards, so reseeding
// can never duplicate.
func (s *Store) seedLocked() {
	log.Info("empty store, loading demo data")

	vds := s.addClientLocked(context.Background(), types.ClientInput{
		Name:          "Vertientes del Sur",
		Code:          "VDS",
		Email:         "contacto@vertientesdelsur.cl",
		Phone:         "+56 9 8765 4321",
		Address:       "Av. Principal 123, Temuco",
		TaxID:         "76.123.456-7",
		ContactPerson: "María González",
		Industry:      "Agroindustria",
	})
	ubo := s.addClientLocked(context.Background(), types.ClientInput{
		Name:          "Universidad Bernardo O'Higgins",
		Code:          "UBO",
		Email:         "proyectos@ubo.cl",
		Phone:         "+56 2 2477 2500",
		Address:       "Av. Viel 1497, Santiago",
		TaxID:         "71.543.200-5",
		ContactPerson: "Carlos Méndez",
		Industry:      "Educación",
	})
	nsr := s.addClientLocked(context.Background(), types.ClientInput{
		Name:          "NovaSur SpA",
		Code:          "NSR",
		Email:         "hola@novasur.cl",
		Phone:         "+56 9 5544 3322",
		Address:       "Lord Cochrane 255, Valdivia",
		TaxID:         "77.890.123-4",
		ContactPerson: "Javiera Soto",
		Industry:      "Tecnología",
	})

	approved := s.createQuotationLocked(vds, "Plataforma de monitoreo de riego")
	s.mutateLocked(approved.ID, func(q *types.Quotation) {
		q.Status = types.StatusApproved
		q.ProjectAbstract = types.ProjectAbstract{
			Title:       "Monitoreo de riego en tiempo real",
			Description: "Sensores de humedad y panel de control para los predios de Temuco.",
			Objectives:  []string{"Reducir consumo de agua", "Alertas tempranas de falla"},
		}
		q.Deliverables = []types.Deliverable{
			{ID: s.newID(), Name: "Diagnóstico en terreno", Quantity: 1, Unit: "servicio", UnitPrice: 1200000},
			{ID: s.newID(), Name: "Implementación de sensores", Quantity: 2, Unit: "predio", UnitPrice: 800000},
		}
		q.Assumptions = []string{"Acceso a los predios en horario hábil"}
		ComputeTotals(q, s.profile.TaxRate)
	})

	pending := s.createQuotationLocked(ubo, "Portal de gestión de proyectos de investigación")
	s.mutateLocked(pending.ID, func(q *types.Quotation) {
		q.Status = types.StatusPending
		q.Deliverables = []types.Deliverable{
			{ID: s.newID(), Name: "Levantamiento de requisitos", Quantity: 1, Unit: "servicio", UnitPrice: 950000},
		}
		q.OptionalItems = []types.OptionalItem{
			{ID: s.newID(), Name: "Capacitación adicional", Price: 350000},
		}
		ComputeTotals(q, s.profile.TaxRate)
	})

	s.createQuotationLocked(nsr, "Auditoría de infraestructura cloud")

	log.Infof("demo data loaded: %d clients, %d quotations", len(s.clients), len(s.quotations))
}

// mutateLocked applies fn to the stored quotation without stamping
// UpdatedAt or persisting; fixture setup only.
func (s *Store) mutateLocked(id string, fn func(q *types.Quotation)) {
	if idx := s.quotationIndexLocked(id); idx >= 0 {
		fn(&s.quotations[idx])
	}
}
