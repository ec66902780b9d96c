// Package auth provides a high-level API for persisting and retrieving per-site credentials from the system keyring.
package auth

import (
	"encoding/json"

	"github.com/link2vid/link2vid/constant"
	"github.com/link2vid/link2vid/source"
	"github.com/zalando/go-keyring"
)

const service = constant.Link2Vid

// SetCredentials persists the credentials for host to the system keyring.
func SetCredentials(host string, creds source.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return keyring.Set(service, host, string(data))
}

// GetCredentials retrieves the credentials stored for host from the system keyring.
func GetCredentials(host string) (source.Credentials, error) {
	var creds source.Credentials

	data, err := keyring.Get(service, host)
	if err != nil {
		return creds, err
	}
	err = json.Unmarshal([]byte(data), &creds)
	return creds, err
}

// DeleteCredentials removes the credentials stored for host from the system keyring.
func DeleteCredentials(host string) error {
	return keyring.Delete(service, host)
}
