package net

import (
	"strconv"

	"liuproxy_connector/internal/common/errors"
)

// Port is a TCP port number.
type Port uint16

// PortFromInt checks that val fits in 0..65535. Config files and the command
// line carry ports as int, so this is the single range check for both.
func PortFromInt(val int) (Port, error) {
	if val < 0 || val > 65535 {
		return 0, errors.NewError("port out of range: ", val)
	}
	return Port(val), nil
}

// PortFromString parses a decimal port.
func PortFromString(s string) (Port, error) {
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewError("invalid port ", strconv.Quote(s)).Base(err)
	}
	return PortFromInt(val)
}

func (p Port) Value() uint16 {
	return uint16(p)
}

func (p Port) String() string {
	return strconv.Itoa(int(p))
}
