package newsletter

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	emails     *prometheus.CounterVec //nolint:gochecknoglobals
	emailsOnce sync.Once              //nolint:gochecknoglobals
)

func countEmail(err error) {
	emailsOnce.Do(func() {
		emails = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "jesite_newsletter_emails_total",
			Help: "Newsletter emails by delivery result.",
		}, []string{"result"})
	})

	result := "sent"
	if err != nil {
		result = "failed"
	}

	emails.WithLabelValues(result).Inc()
}
