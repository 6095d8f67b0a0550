package bridge

import (
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/models"
	"github.com/dmitrijs2005/gophvault/internal/services"
	"google.golang.org/protobuf/types/known/structpb"
)

func entryToMap(e models.VaultEntry) map[string]any {
	m := map[string]any{
		"id":         e.ID,
		"website":    e.Website,
		"identifier": e.Identifier,
		"password":   e.Password,
	}
	if e.Group != "" {
		m["group"] = e.Group
	}
	if e.Note != "" {
		m["note"] = e.Note
	}
	return m
}

func entryFromStruct(s *structpb.Struct) models.VaultEntry {
	f := s.GetFields()
	return models.VaultEntry{
		ID:         f["id"].GetStringValue(),
		Website:    f["website"].GetStringValue(),
		Identifier: f["identifier"].GetStringValue(),
		Password:   f["password"].GetStringValue(),
		Group:      f["group"].GetStringValue(),
		Note:       f["note"].GetStringValue(),
	}
}

// encodeVaultResponse builds {success, data: [entry...]}.
func encodeVaultResponse(r services.VaultResponse) (*structpb.Struct, error) {
	data := make([]any, 0, len(r.Data))
	for _, e := range r.Data {
		data = append(data, entryToMap(e))
	}
	s, err := structpb.NewStruct(map[string]any{
		"success": r.Success,
		"data":    data,
	})
	if err != nil {
		return nil, fmt.Errorf("encode vault response: %w", err)
	}
	return s, nil
}

func decodeVaultResponse(s *structpb.Struct) services.VaultResponse {
	f := s.GetFields()
	out := services.VaultResponse{
		Success: f["success"].GetBoolValue(),
		Data:    []models.VaultEntry{},
	}
	for _, v := range f["data"].GetListValue().GetValues() {
		if es := v.GetStructValue(); es != nil {
			out.Data = append(out.Data, entryFromStruct(es))
		}
	}
	return out
}

func encodeSaveCredentials(c models.SaveCredentials) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(map[string]any{
		"website":    c.Website,
		"identifier": c.Identifier,
		"password":   c.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}
	return s, nil
}

func decodeSaveCredentials(s *structpb.Struct) models.SaveCredentials {
	f := s.GetFields()
	return models.SaveCredentials{
		Website:    f["website"].GetStringValue(),
		Identifier: f["identifier"].GetStringValue(),
		Password:   f["password"].GetStringValue(),
	}
}
