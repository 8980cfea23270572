package server

import (
	"crypto/rand"
	"math/big"
	"net"

	"github.com/nats-io/nuid"
	"github.com/pkg/errors"
	hashids "github.com/speps/go-hashids"
)

const defaultName = "assessor"

// GenerateName returns a short random hashid used to tell service instances
// apart in logs and responses.
func GenerateName() string {
	number, err := rand.Int(rand.Reader, big.NewInt(10000000))
	if err != nil {
		return defaultName
	}

	hd := hashids.NewData()
	hd.Salt = "cefr assessor random name generator"
	hd.MinLength = 5
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return defaultName
	}
	name, err := h.EncodeInt64([]int64{number.Int64()})
	if err != nil {
		return defaultName
	}
	return name
}

func GenerateID() string {
	return nuid.Next()
}

// AvailablePort finds a free tcp port.
func AvailablePort() (int, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, errors.Wrap(err, "cannot acquire a tcp port")
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
