package query

import (
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

// Key identifica una entrada del caché. Es comparable: mismo recurso y mismos parámetros
// producen la misma Key. Page 0 significa recurso no paginado.
type Key struct {
	Resource string
	Page     int
	Args     string // url.Values codificado (claves ordenadas)
}

// NewKey construye una Key canónica; args vacíos o nil son equivalentes.
func NewKey(resource string, page int, args url.Values) Key {
	enc := ""
	if len(args) > 0 {
		clean := url.Values{}
		for k, vs := range args {
			for _, v := range vs {
				if v != "" {
					clean.Add(k, v)
				}
			}
		}
		enc = clean.Encode()
	}
	return Key{Resource: resource, Page: page, Args: enc}
}

// Values decodifica Args.
func (k Key) Values() url.Values {
	v, err := url.ParseQuery(k.Args)
	if err != nil {
		return url.Values{}
	}
	return v
}

// IsFirstPage indica si la entrada representa la primera página de una colección.
func (k Key) IsFirstPage() bool { return k.Page == 1 }

func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Resource)
	if k.Page > 0 {
		fmt.Fprintf(&b, "#%d", k.Page)
	}
	if k.Args != "" {
		b.WriteByte('?')
		b.WriteString(k.Args)
	}
	return b.String()
}

// TempIDPrefix prefijo de los ids provisionales. El backend asigna uuid, nunca colisionan.
const TempIDPrefix = "optimistic-"

var tempSeq atomic.Uint64

// TempID genera un id provisional único dentro del proceso.
func TempID() string {
	return fmt.Sprintf("%s%d-%d", TempIDPrefix, time.Now().UnixNano(), tempSeq.Add(1))
}

// IsTempID indica si id fue generado por TempID.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}
