package scheduler

import (
	"log"
	"time"

	"github.com/Maxito7/central_backend/internal/application"
)

type ReservationScheduler struct {
	reservaService *application.ReservaService
	ticker         *time.Ticker
}

// NewReservationScheduler crea una nueva instancia del scheduler de reservas
func NewReservationScheduler(reservaService *application.ReservaService) *ReservationScheduler {
	return &ReservationScheduler{
		reservaService: reservaService,
	}
}

// Start inicia el scheduler que cancela reservas provisionales vencidas cada 24 horas
func (s *ReservationScheduler) Start() {
	log.Println("🕐 Scheduler de reservas iniciado - Se ejecutará cada 24 horas")

	// Ejecutar inmediatamente al iniciar
	s.CancelExpiredProvisionales()

	// Programar ejecución cada 24 horas a las 00:01 AM
	now := time.Now()
	nextRun := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 1, 0, 0, now.Location())
	durationUntilNextRun := time.Until(nextRun)

	log.Printf("⏰ Próxima ejecución programada: %s", nextRun.Format("2006-01-02 15:04:05"))

	time.AfterFunc(durationUntilNextRun, func() {
		s.CancelExpiredProvisionales()

		s.ticker = time.NewTicker(24 * time.Hour)
		go func() {
			for range s.ticker.C {
				s.CancelExpiredProvisionales()
			}
		}()
	})
}

// Stop detiene el scheduler
func (s *ReservationScheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		log.Println("🛑 Scheduler de reservas detenido")
	}
}

// CancelExpiredProvisionales cancela las reservas temporales cuya fecha ya pasó
func (s *ReservationScheduler) CancelExpiredProvisionales() {
	log.Println("🔄 Ejecutando cancelación de reservas provisionales vencidas...")

	canceladas, err := s.reservaService.ExpireProvisionales(time.Now())
	if err != nil {
		log.Printf("❌ Error cancelando reservas provisionales: %v", err)
		return
	}
	if canceladas > 0 {
		log.Printf("✅ Reservas provisionales canceladas: %d", canceladas)
	}
}
