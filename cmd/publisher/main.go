package main

import (
	"encoding/json"
	"log"
	"os"

	stan "github.com/nats-io/stan.go"

	"github.com/example/tarana-storefront/internal/adapter/natsstan"
	"github.com/example/tarana-storefront/internal/config"
	"github.com/example/tarana-storefront/internal/usecase"
)

// publisher reads one cart command from stdin, e.g. {"op":"add","productId":1},
// and publishes it to the storefront command subject.
func main() {
	cfg := config.Load()

	var cmd usecase.Command
	dec := json.NewDecoder(os.Stdin)
	if err := dec.Decode(&cmd); err != nil {
		log.Fatalf("read command from stdin: %v", err)
	}
	b, err := json.Marshal(cmd)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}

	sc, err := stan.Connect(cfg.STANClusterID, natsstan.ClientIDFor(os.Getenv("STAN_PUB_ID"), "storefront-pub"), stan.NatsURL(cfg.NATSURL))
	if err != nil {
		log.Fatalf("stan connect: %v", err)
	}
	defer sc.Close()

	if err := sc.Publish(cfg.STANSubject, b); err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Printf("published %s command (%d bytes) to %s", cmd.Op, len(b), cfg.STANSubject)
}
