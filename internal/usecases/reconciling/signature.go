package reconciling

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// verifySignature valida o cabeçalho de assinatura do provedor no esquema
// "t=<unix>,v1=<hex>[,v1=...]": HMAC-SHA256 do secret sobre
// "<timestamp>.<payload bruto>". A comparação usa hmac.Equal (tempo
// constante); payload e cabeçalho chegam pela rede e são controláveis por
// um atacante, então nunca comparamos campos decodificados diretamente.
func verifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	if tolerance > 0 {
		issuedAt := time.Unix(timestamp, 0)
		age := now.Sub(issuedAt)
		if age > tolerance || age < -tolerance {
			return fmt.Errorf("%w: timestamp fora da tolerância", ErrInvalidSignature)
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, signature := range signatures {
		decoded, err := hex.DecodeString(signature)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, decoded) {
			return nil
		}
	}

	return ErrInvalidSignature
}

// parseSignatureHeader extrai o timestamp e as assinaturas v1 do cabeçalho
func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64 = -1
	signatures := make([]string, 0, 1)

	for _, pair := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}

		switch parts[0] {
		case "t":
			parsed, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: timestamp inválido", ErrInvalidSignature)
			}
			timestamp = parsed
		case "v1":
			signatures = append(signatures, parts[1])
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: cabeçalho sem timestamp ou sem assinatura v1", ErrInvalidSignature)
	}

	return timestamp, signatures, nil
}

// signPayload monta um cabeçalho de assinatura válido. Usado nos testes e
// em ferramentas locais de reenvio de eventos.
func signPayload(payload []byte, secret string, issuedAt time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", issuedAt.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", issuedAt.Unix(), hex.EncodeToString(mac.Sum(nil)))
}
