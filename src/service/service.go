package service

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/vigilnetworks/vigil/src/governance"
)

// Service exposes the read-only masternode API over HTTP.
type Service struct {
	bindAddress string
	governance  *governance.Governance
	logger      *logrus.Entry
}

// NewService ...
func NewService(bindAddress string, g *governance.Governance, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		governance:  g,
		logger:      logger,
	}

	service.registerHandlers()

	return &service
}

// registerHandlers registers the API handlers with the DefaultServerMux of the
// http package. It is possible that another server in the same process is
// simultaneously using the DefaultServerMux. In which case, the handlers will
// be accessible from both servers. This is usefull when the engine is embedded
// and expected to use the same endpoint (address:port) as the application's
// API.
func (s *Service) registerHandlers() {
	s.logger.Debug("Registering Vigil API handlers")
	http.HandleFunc("/stats", s.makeHandler(s.GetStats))
	http.HandleFunc("/masternodes", s.makeHandler(s.GetMasternodes))
	http.HandleFunc("/elected", s.makeHandler(s.GetElected))
	http.HandleFunc("/payees/", s.makeHandler(s.GetPayee))
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Serve calls ListenAndServe. This is a blocking call. It is not necessary to
// call Serve when the engine is embedded and another server has already been
// started with the DefaultServerMux and the same address:port combination.
// Indeed, the API handlers have already been registered when the service was
// instantiated.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving Vigil API")

	// Use the DefaultServerMux
	err := http.ListenAndServe(s.bindAddress, nil)
	if err != nil {
		s.logger.Error(err)
	}
}

// GetStats ...
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := s.governance.GetStats()

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(stats)
}

// GetMasternodes ...
func (s *Service) GetMasternodes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(s.governance.Masternodes())
}

// GetElected ...
func (s *Service) GetElected(w http.ResponseWriter, r *http.Request) {
	elected := s.governance.ElectedRoster()

	outpoints := make([]string, len(elected))
	for i, op := range elected {
		outpoints[i] = op.String()
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(outpoints)
}

// GetPayee returns the payee recorded on the block at the requested height.
func (s *Service) GetPayee(w http.ResponseWriter, r *http.Request) {
	param := r.URL.Path[len("/payees/"):]

	height, err := strconv.Atoi(param)

	if err != nil {
		s.logger.WithError(err).Errorf("Parsing height parameter %s", param)

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	payee, err := s.governance.PayeeAt(height)

	if err != nil {
		s.logger.WithError(err).Errorf("Retrieving block %d", height)

		http.Error(w, err.Error(), http.StatusNotFound)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(payee)
}
