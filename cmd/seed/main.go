package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ClinicService/internal/config"
	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// Наполняет базу тестовыми данными: расписание нескольких врачей
// на две недели вперед и частично заполненные очереди записей
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	doctors := flag.Int("doctors", 5, "number of doctors to seed")
	patients := flag.Int("patients", 30, "number of patients to draw appointments from")
	seed := flag.Int64("seed", 0, "random seed (0 = random)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *seed != 0 {
		gofakeit.Seed(*seed)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Printf("Failed to ping database: %v\n", err)
		os.Exit(1)
	}

	slotCount, appointmentCount := 0, 0
	now := time.Now()

	for doctorID := int64(1); doctorID <= int64(*doctors); doctorID++ {
		// Для каждого врача - по слоту утром и днем на ближайшие 14 дней
		for day := 1; day <= 14; day++ {
			date := domain.DateOnly(now.AddDate(0, 0, day))

			for _, window := range [][2]string{{"09:00:00", "12:00:00"}, {"14:00:00", "17:00:00"}} {
				maxPatients := gofakeit.Number(1, 5)

				var slotID int64
				err := db.QueryRow(`
					INSERT INTO availability_slots
						(doctor_id, date, start_time, end_time, max_patients,
						 booking_window_start, booking_window_end, is_future_available)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
					RETURNING id`,
					doctorID, date, window[0], window[1], maxPatients,
					now.AddDate(0, 0, -1), date.AddDate(0, 0, 1), gofakeit.Bool(),
				).Scan(&slotID)
				if err != nil {
					fmt.Printf("Failed to insert slot: %v\n", err)
					os.Exit(1)
				}
				slotCount++

				// Заполняем часть мест в очереди, без повторных записей
				// одного пациента в слот
				booked := gofakeit.Number(0, maxPatients)
				taken := make(map[int64]bool)
				for position := 1; position <= booked; position++ {
					patientID := int64(gofakeit.Number(1, *patients))
					for taken[patientID] {
						patientID = int64(gofakeit.Number(1, *patients))
					}
					taken[patientID] = true

					notes := ""
					if gofakeit.Bool() {
						notes = gofakeit.Sentence(6)
					}

					_, err := db.Exec(`
						INSERT INTO appointments
							(doctor_id, patient_id, slot_id, queue_position, status, notes)
						VALUES ($1, $2, $3, $4, $5, $6)`,
						doctorID, patientID, slotID, position, domain.StatusBooked, notes,
					)
					if err != nil {
						fmt.Printf("Failed to insert appointment: %v\n", err)
						os.Exit(1)
					}
					appointmentCount++
				}
			}
		}
	}

	fmt.Printf("Seeded %d slot(s) and %d appointment(s) for %d doctor(s)\n",
		slotCount, appointmentCount, *doctors)
}
