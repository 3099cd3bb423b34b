//go:build windows

package probes

import (
	"context"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows/registry"
)

type win32Tpm struct {
	IsEnabled_InitialValue   bool
	IsActivated_InitialValue bool
	SpecVersion              string
}

// SecurityRecord summarizes the host's security posture.
type SecurityRecord struct {
	SecureBootEnabled *bool  `json:"secureBootEnabled,omitempty"`
	UACEnabled        *bool  `json:"uacEnabled,omitempty"`
	TPMPresent        bool   `json:"tpmPresent"`
	TPMEnabled        bool   `json:"tpmEnabled,omitempty"`
	TPMActivated      bool   `json:"tpmActivated,omitempty"`
	TPMSpecVersion    string `json:"tpmSpecVersion,omitempty"`
}

// securityExecutor reads Secure Boot and UAC state from the registry and TPM
// state from the MicrosoftTpm WMI namespace. Sub-sources that are absent on
// this hardware are left unset rather than failing the whole probe.
func securityExecutor(_ context.Context) (any, error) {
	rec := SecurityRecord{}

	if enabled, err := readRegistryDword(
		registry.LOCAL_MACHINE,
		`SYSTEM\CurrentControlSet\Control\SecureBoot\State`,
		"UEFISecureBootEnabled",
	); err == nil {
		v := enabled != 0
		rec.SecureBootEnabled = &v
	}

	if enabled, err := readRegistryDword(
		registry.LOCAL_MACHINE,
		`SOFTWARE\Microsoft\Windows\CurrentVersion\Policies\System`,
		"EnableLUA",
	); err == nil {
		v := enabled != 0
		rec.UACEnabled = &v
	}

	var tpm []win32Tpm
	q := "SELECT IsEnabled_InitialValue, IsActivated_InitialValue, SpecVersion FROM Win32_Tpm"
	if err := wmi.QueryNamespace(q, &tpm, `root\CIMV2\Security\MicrosoftTpm`); err == nil && len(tpm) > 0 {
		rec.TPMPresent = true
		rec.TPMEnabled = tpm[0].IsEnabled_InitialValue
		rec.TPMActivated = tpm[0].IsActivated_InitialValue
		rec.TPMSpecVersion = tpm[0].SpecVersion
	}

	return rec, nil
}

// readRegistryDword opens a key read-only, reads one DWORD value, and closes
// the key before returning.
func readRegistryDword(root registry.Key, path, name string) (uint64, error) {
	key, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
	if err != nil {
		return 0, err
	}
	defer key.Close()

	value, _, err := key.GetIntegerValue(name)
	if err != nil {
		return 0, err
	}
	return value, nil
}
