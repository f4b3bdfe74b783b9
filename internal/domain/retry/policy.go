// Package retry define la política de reintentos de mensajes fallidos de la cola.
package retry

import "time"

const (
	DefaultMaxFailures = 10
	DefaultMaxBackoff  = 900 * time.Second
)

// Policy backoff exponencial con tope y techo de fallos antes de ir a dead-letter.
type Policy struct {
	MaxFailures int
	MaxBackoff  time.Duration
}

// DefaultPolicy 2^(n+1) segundos, tope 15 minutos, dead-letter al fallo número 10.
func DefaultPolicy() Policy {
	return Policy{MaxFailures: DefaultMaxFailures, MaxBackoff: DefaultMaxBackoff}
}

// Decision resultado de evaluar un fallo.
type Decision struct {
	// FailureCount contador ya incrementado que se guarda con el mensaje.
	FailureCount int
	Delay        time.Duration
	DeadLetter   bool
}

// Next evalúa un mensaje que acaba de fallar con failureCount fallos previos.
// El retardo usa el contador previo; el contador nuevo decide el dead-letter.
func (p Policy) Next(failureCount int) Decision {
	if failureCount < 0 {
		failureCount = 0
	}
	next := failureCount + 1
	if p.MaxFailures > 0 && next >= p.MaxFailures {
		return Decision{FailureCount: next, DeadLetter: true}
	}
	return Decision{FailureCount: next, Delay: p.Backoff(failureCount)}
}

// Backoff min(2^(failureCount+1) s, MaxBackoff).
func (p Policy) Backoff(failureCount int) time.Duration {
	ceiling := p.MaxBackoff
	if ceiling <= 0 {
		ceiling = DefaultMaxBackoff
	}
	exp := failureCount + 1
	// a partir de 2^30 s cualquier tope razonable ya se alcanzó
	if exp >= 30 {
		return ceiling
	}
	return min(time.Duration(1<<exp)*time.Second, ceiling)
}
