package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	tmerrors "github.com/agentstation/tokenmap/pkg/errors"
)

// WriteTextfile writes every metric gathered from g to path in the text
// exposition format. The file is replaced atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return tmerrors.WrapIO("write", path, err)
	}
	return nil
}
