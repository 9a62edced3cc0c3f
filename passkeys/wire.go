package passkeys

import (
	"fmt"

	"github.com/jrsteele09/go-passkey-client/broker"
	"github.com/jrsteele09/go-passkey-client/codec"
)

// Wire structures mirror the JSON exchanged with the API. Binary fields
// travel as URL-safe unpadded text and are converted through the codec
// package explicitly, so a bad payload surfaces as ErrMalformedEncoding
// instead of reaching the credential broker.

type relyingPartyWire struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type userWire struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

type credentialParameterWire struct {
	Type string `json:"type"`
	Alg  int64  `json:"alg"`
}

type credentialDescriptorWire struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type authenticatorSelectionWire struct {
	AuthenticatorAttachment string `json:"authenticatorAttachment,omitempty"`
	ResidentKey             string `json:"residentKey,omitempty"`
	UserVerification        string `json:"userVerification,omitempty"`
}

type creationOptionsWire struct {
	Challenge              string                     `json:"challenge"`
	RelyingParty           relyingPartyWire           `json:"rp"`
	User                   userWire                   `json:"user"`
	Parameters             []credentialParameterWire  `json:"pubKeyCredParams"`
	Timeout                uint64                     `json:"timeout,omitempty"`
	ExcludeCredentials     []credentialDescriptorWire `json:"excludeCredentials,omitempty"`
	AuthenticatorSelection authenticatorSelectionWire `json:"authenticatorSelection,omitempty"`
	Attestation            string                     `json:"attestation,omitempty"`
}

func (w creationOptionsWire) decode() (*broker.CreationOptions, error) {
	challenge, err := codec.Decode(w.Challenge)
	if err != nil {
		return nil, fmt.Errorf("decode creation challenge: %w", err)
	}
	userHandle, err := codec.Decode(w.User.ID)
	if err != nil {
		return nil, fmt.Errorf("decode user handle: %w", err)
	}
	exclude, err := decodeDescriptors(w.ExcludeCredentials)
	if err != nil {
		return nil, fmt.Errorf("decode exclude credentials: %w", err)
	}

	options := &broker.CreationOptions{
		Challenge: challenge,
		RelyingParty: broker.RelyingParty{
			ID:   w.RelyingParty.ID,
			Name: w.RelyingParty.Name,
		},
		User: broker.User{
			ID:          userHandle,
			Name:        w.User.Name,
			DisplayName: w.User.DisplayName,
		},
		TimeoutMillis:      w.Timeout,
		ExcludeCredentials: exclude,
		Selection: broker.AuthenticatorSelection{
			AuthenticatorAttachment: w.AuthenticatorSelection.AuthenticatorAttachment,
			ResidentKey:             w.AuthenticatorSelection.ResidentKey,
			UserVerification:        w.AuthenticatorSelection.UserVerification,
		},
		Attestation: w.Attestation,
	}
	for _, param := range w.Parameters {
		options.Parameters = append(options.Parameters, broker.CredentialParameter{
			Type:      param.Type,
			Algorithm: param.Alg,
		})
	}
	return options, nil
}

type requestOptionsWire struct {
	Challenge        string                     `json:"challenge"`
	RelyingPartyID   string                     `json:"rpId,omitempty"`
	AllowCredentials []credentialDescriptorWire `json:"allowCredentials,omitempty"`
	Timeout          uint64                     `json:"timeout,omitempty"`
	UserVerification string                     `json:"userVerification,omitempty"`
}

func (w requestOptionsWire) decode() (*broker.RequestOptions, error) {
	challenge, err := codec.Decode(w.Challenge)
	if err != nil {
		return nil, fmt.Errorf("decode assertion challenge: %w", err)
	}
	allowed, err := decodeDescriptors(w.AllowCredentials)
	if err != nil {
		return nil, fmt.Errorf("decode allowed credentials: %w", err)
	}
	return &broker.RequestOptions{
		Challenge:          challenge,
		RelyingPartyID:     w.RelyingPartyID,
		AllowedCredentials: allowed,
		TimeoutMillis:      w.Timeout,
		UserVerification:   w.UserVerification,
	}, nil
}

func decodeDescriptors(wires []credentialDescriptorWire) ([]broker.CredentialDescriptor, error) {
	descriptors := make([]broker.CredentialDescriptor, 0, len(wires))
	for _, wire := range wires {
		id, err := codec.Decode(wire.ID)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, broker.CredentialDescriptor{
			Type: wire.Type,
			ID:   id,
		})
	}
	return descriptors, nil
}

type beginRegistrationResponse struct {
	SessionID string `json:"sessionID"`
	Options   struct {
		PublicKey creationOptionsWire `json:"publicKey"`
	} `json:"options"`
}

type attestationResponseWire struct {
	AttestationObject string `json:"attestationObject"`
	ClientDataJSON    string `json:"clientDataJSON"`
}

type registrationCredentialWire struct {
	ID       string                  `json:"id"`
	RawID    string                  `json:"rawId"`
	Type     string                  `json:"type"`
	Response attestationResponseWire `json:"response"`
}

func encodeRegistrationCredential(credential *broker.CredentialResponse) registrationCredentialWire {
	return registrationCredentialWire{
		ID:    credential.ID,
		RawID: codec.Encode(credential.RawID),
		Type:  credential.Type,
		Response: attestationResponseWire{
			AttestationObject: codec.Encode(credential.AttestationObject),
			ClientDataJSON:    codec.Encode(credential.ClientDataJSON),
		},
	}
}

type beginAuthenticationRequest struct {
	SessionID string `json:"sessionID"`
}

type beginAuthenticationResponse struct {
	CeremonySessionID string `json:"ceremonySessionID"`
	Options           struct {
		PublicKey requestOptionsWire `json:"publicKey"`
	} `json:"options"`
}

type assertionResponseWire struct {
	AuthenticatorData string `json:"authenticatorData"`
	ClientDataJSON    string `json:"clientDataJSON"`
	Signature         string `json:"signature"`
	UserHandle        string `json:"userHandle"`
}

type assertionCredentialWire struct {
	ID       string                `json:"id"`
	RawID    string                `json:"rawId"`
	Type     string                `json:"type"`
	Response assertionResponseWire `json:"response"`
}

func encodeAssertionCredential(credential *broker.CredentialResponse) assertionCredentialWire {
	return assertionCredentialWire{
		ID:    credential.ID,
		RawID: codec.Encode(credential.RawID),
		Type:  credential.Type,
		Response: assertionResponseWire{
			AuthenticatorData: codec.Encode(credential.AuthenticatorData),
			ClientDataJSON:    codec.Encode(credential.ClientDataJSON),
			Signature:         codec.Encode(credential.Signature),
			UserHandle:        codec.Encode(credential.UserHandle),
		},
	}
}

type listPasskeysResponse struct {
	Passkeys []Passkey `json:"passkeys"`
}

type renamePasskeyRequest struct {
	FriendlyName string `json:"friendlyName"`
}
