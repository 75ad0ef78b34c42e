package opensearch_client

import (
	"crypto/tls"
	"net/http"

	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"github.com/rotisserie/eris"
)

func New(cfg *config.Config) (*opensearchapi.Client, error) {
	oc := cfg.Infrastructure.OpenSearch

	client, err := opensearchapi.NewClient(
		opensearchapi.Config{
			Client: opensearch.Config{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{InsecureSkipVerify: oc.Insecure},
				},
				Addresses: oc.Addresses,
				Username:  oc.Username,
				Password:  oc.Password,
			},
		},
	)
	if err != nil {
		return nil, eris.Wrap(err, "opensearch: create client")
	}

	return client, nil
}
