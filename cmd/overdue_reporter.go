package main

import (
	"context"
	"log"
	"time"

	"billingBack/internal/services"
)

const overdueReporterTimeout = 30 * time.Second

func startOverdueReporter(ctx context.Context, svc *services.InvoiceService, interval time.Duration, infoLog, errorLog *log.Logger) {
	if svc == nil || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, overdueReporterTimeout)
			defer cancel()

			summary, err := svc.Overdue(runCtx)
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("overdue reporter: %v", err)
				}
				return
			}
			if summary.Count > 0 && infoLog != nil {
				infoLog.Printf("overdue reporter: %d open invoices past due, %s outstanding", summary.Count, summary.Outstanding.StringFixed(2))
			}
		}

		run()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
