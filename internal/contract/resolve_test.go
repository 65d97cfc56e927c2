package contract

import (
	"context"
	"testing"

	"contractfix/internal/extractor"
	"contractfix/internal/symbols"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainSource = `namespace Shapes
{
    public class A
    {
        public virtual void Draw(int size) { Contract.Requires(size > 0); }
    }

    public class B : A
    {
        public override void Draw(int size) { Contract.Requires(size < 100); }
    }

    public class C : B
    {
        public override void Draw(int size) { }
    }

    public interface ICanvas
    {
        void Draw(int size);
        void Clear();
    }

    public class D : C, ICanvas
    {
        public override void Draw(int size) { }
        public void Clear() { }
    }
}
`

func TestResolveBaseMethods(t *testing.T) {
	m := buildModel(t, map[string]string{"Shapes.cs": chainSource})
	ctx := context.Background()
	a := methodNamed(t, typeNamed(t, m, "Shapes", "A"), "Draw")
	b := methodNamed(t, typeNamed(t, m, "Shapes", "B"), "Draw")
	c := methodNamed(t, typeNamed(t, m, "Shapes", "C"), "Draw")

	t.Run("immediate override only", func(t *testing.T) {
		got, err := ResolveBaseMethods(ctx, c, BaseOptions{})
		require.NoError(t, err)
		assert.Equal(t, []*symbols.Method{b}, got)
	})

	t.Run("transitive", func(t *testing.T) {
		got, err := ResolveBaseMethods(ctx, c, BaseOptions{Transitive: true})
		require.NoError(t, err)
		assert.Equal(t, []*symbols.Method{b, a}, got)
	})

	t.Run("override then interface", func(t *testing.T) {
		d := typeNamed(t, m, "Shapes", "D")
		canvas := typeNamed(t, m, "Shapes", "ICanvas")
		got, err := ResolveBaseMethods(ctx, methodNamed(t, d, "Draw"), BaseOptions{})
		require.NoError(t, err)
		assert.Equal(t, []*symbols.Method{c, methodNamed(t, canvas, "Draw")}, got)

		got, err = ResolveBaseMethods(ctx, methodNamed(t, d, "Clear"), BaseOptions{})
		require.NoError(t, err)
		assert.Equal(t, []*symbols.Method{methodNamed(t, canvas, "Clear")}, got)
	})

	t.Run("no base", func(t *testing.T) {
		got, err := ResolveBaseMethods(ctx, a, BaseOptions{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := ResolveBaseMethods(cctx, c, BaseOptions{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

const holderSource = `using System;
using System.Diagnostics.Contracts;

namespace Store
{
    [ContractClass(typeof(FooContract<>))]
    public interface IFoo<T>
    {
        void Put(T item, string key);
    }

    [ContractClassFor(typeof(IFoo<>))]
    abstract class FooContract<T> : IFoo<T>
    {
        void IFoo<T>.Put(T item, string key)
        {
            Contract.Requires(item != null);
            Contract.Requires(key != null);
        }
    }

    public class IntFoo : IFoo<int>
    {
        public void Put(int item, string key)
        {
            Contract.Requires(key != null);
        }
    }

    [ContractClass(typeof(WriterContract))]
    public abstract class Writer
    {
        public abstract void Write(string text);
        public virtual void Flush(int depth) { Contract.Requires(depth >= 0); }
    }

    [ContractClassFor(typeof(Writer))]
    abstract class WriterContract : Writer
    {
        public override void Write(string text)
        {
            Contract.Requires(text != null);
        }
    }

    public class FileWriter : Writer
    {
        public override void Write(string text) { }
        public override void Flush(int depth) { }
    }
}
`

func TestResolveContractHolderMethods(t *testing.T) {
	m := buildModel(t, map[string]string{"Store.cs": holderSource})
	ctx := context.Background()

	t.Run("generic interface holder", func(t *testing.T) {
		intFoo := typeNamed(t, m, "Store", "IntFoo")
		put := methodNamed(t, intFoo, "Put")
		bases, err := ResolveBaseMethods(ctx, put, BaseOptions{})
		require.NoError(t, err)
		require.Len(t, bases, 1)
		assert.Equal(t, "Store.IFoo<int>", bases[0].ContainingType().String())

		holders, err := ResolveContractHolderMethods(ctx, m, bases[0], put)
		require.NoError(t, err)
		require.Len(t, holders, 1)
		holder := typeNamed(t, m, "Store", "FooContract`1")
		assert.Same(t, methodNamed(t, holder, "Put"), holders[0])
	})

	t.Run("abstract class holder", func(t *testing.T) {
		fw := typeNamed(t, m, "Store", "FileWriter")
		write := methodNamed(t, fw, "Write")
		bases, err := ResolveBaseMethods(ctx, write, BaseOptions{})
		require.NoError(t, err)
		require.Len(t, bases, 1)

		holders, err := ResolveContractHolderMethods(ctx, m, bases[0], write)
		require.NoError(t, err)
		require.Len(t, holders, 1)
		assert.Same(t, methodNamed(t, typeNamed(t, m, "Store", "WriterContract"), "Write"), holders[0])
	})

	t.Run("virtual base counts itself", func(t *testing.T) {
		fw := typeNamed(t, m, "Store", "FileWriter")
		flush := methodNamed(t, fw, "Flush")
		base := methodNamed(t, typeNamed(t, m, "Store", "Writer"), "Flush")

		holders, err := ResolveContractHolderMethods(ctx, m, base, flush)
		require.NoError(t, err)
		assert.Equal(t, []*symbols.Method{base}, holders)
	})

	t.Run("holder skips itself", func(t *testing.T) {
		holder := typeNamed(t, m, "Store", "WriterContract")
		write := methodNamed(t, holder, "Write")
		base := methodNamed(t, typeNamed(t, m, "Store", "Writer"), "Write")

		holders, err := ResolveContractHolderMethods(ctx, m, base, write)
		require.NoError(t, err)
		assert.Empty(t, holders)
	})
}

// The full pull for IntFoo.Put: one precondition comes from the holder, the other is present.
func TestPullFromHolder(t *testing.T) {
	m := buildModel(t, map[string]string{"Store.cs": holderSource})
	ctx := context.Background()
	d := DefaultDialect()

	put := methodNamed(t, typeNamed(t, m, "Store", "IntFoo"), "Put")
	bases, err := ResolveBaseMethods(ctx, put, BaseOptions{})
	require.NoError(t, err)

	var aggregated []Precondition
	for _, b := range bases {
		holders, err := ResolveContractHolderMethods(ctx, m, b, put)
		require.NoError(t, err)
		for _, h := range holders {
			for _, decl := range h.DeclaringSyntax() {
				aggregated = append(aggregated, ExtractLeadingPreconditions(extractor.MethodBody(decl), d, ExtractDefault)...)
			}
		}
	}
	require.Len(t, aggregated, 2)

	present := ExtractLeadingPreconditions(extractor.MethodBody(put.DeclaringSyntax()[0]), d, ExtractAll)
	missing := Deduplicate(aggregated, present, true)
	assert.Equal(t, []string{"Contract.Requires(item != null);"}, statementTexts(missing))
}
